package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/pipescope/internal/ctxlog"
	"github.com/vk/pipescope/internal/fsutil"
	"github.com/vk/pipescope/internal/pipeline"
)

// FileLoader dispatches files to FormatLoaders by extension.
type FileLoader struct {
	formats map[string]FormatLoader
	exts    []string
}

// NewLoader creates a FileLoader. When two formats claim the same extension
// the later one wins.
func NewLoader(formats ...FormatLoader) *FileLoader {
	l := &FileLoader{formats: make(map[string]FormatLoader)}
	for _, f := range formats {
		for _, ext := range f.Extensions() {
			ext = strings.ToLower(ext)
			if _, exists := l.formats[ext]; !exists {
				l.exts = append(l.exts, ext)
			}
			l.formats[ext] = f
		}
	}
	return l
}

// Extensions lists every supported extension.
func (l *FileLoader) Extensions() []string {
	return append([]string(nil), l.exts...)
}

// Load implements Loader.
func (l *FileLoader) Load(ctx context.Context, paths ...string) ([]*pipeline.Pipeline, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Pipeline loader started.", "path_count", len(paths))

	files, err := l.Files(paths...)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered pipeline files.", "count", len(files))

	var pipelines []*pipeline.Pipeline
	origin := make(map[string]string)
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		format := l.formatFor(file)
		loaded, err := format.LoadFile(ctxlog.With(ctx, "file", file), file)
		if err != nil {
			return nil, err
		}
		for _, p := range loaded {
			if prev, dup := origin[p.ID]; dup {
				logger.Warn("Pipeline id declared more than once.", "pipeline", p.ID, "first", prev, "again", file)
			} else {
				origin[p.ID] = file
			}
		}
		logger.Debug("Loaded pipeline file.", "file", file, "pipelines", len(loaded))
		pipelines = append(pipelines, loaded...)
	}

	logger.Debug("Pipeline loading complete.", "pipelines", len(pipelines))
	return pipelines, nil
}

// Files resolves paths to the list of files Load would read. Directories are
// walked recursively. A path that does not exist is an error, and so is an
// empty result.
func (l *FileLoader) Files(paths ...string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		p = filepath.Clean(p)
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := fsutil.FindFiles(path, l.exts...)
			if err != nil {
				return nil, fmt.Errorf("error walking %s: %w", path, err)
			}
			for _, f := range found {
				add(f)
			}
			continue
		}

		if l.formatFor(path) == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
		add(path)
	}

	if len(allFiles) == 0 {
		return nil, fmt.Errorf("%w in %s (supported: %s)", ErrNoPipelineFiles, strings.Join(paths, ", "), strings.Join(l.exts, ", "))
	}
	return allFiles, nil
}

func (l *FileLoader) formatFor(path string) FormatLoader {
	for _, ext := range l.exts {
		if fsutil.HasExtension(path, ext) {
			return l.formats[ext]
		}
	}
	return nil
}
