package config

import (
	"context"

	"github.com/vk/pipescope/internal/pipeline"
)

// Loader loads every pipeline found under the given paths.
type Loader interface {
	// Load reads each path, which may be a file or a directory, and returns
	// the pipelines in file order and then document order.
	Load(ctx context.Context, paths ...string) ([]*pipeline.Pipeline, error)
}

// FormatLoader parses one file format.
type FormatLoader interface {
	// Extensions lists the file extensions this format claims, including the
	// leading dot.
	Extensions() []string
	// LoadFile parses a single file. A file may hold several pipelines.
	LoadFile(ctx context.Context, path string) ([]*pipeline.Pipeline, error)
}
