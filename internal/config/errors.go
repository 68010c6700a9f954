package config

import "errors"

var (
	// ErrNoPipelineFiles is returned when the given paths hold no file of a
	// supported format.
	ErrNoPipelineFiles = errors.New("no pipeline definition files found")
	// ErrUnsupportedFormat is returned for an explicit file path whose
	// extension no FormatLoader claims.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
