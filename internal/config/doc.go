// Package config locates pipeline definition files and loads them into the
// pipeline model.
//
// Parsing is delegated to format-specific FormatLoader implementations, such
// as those in the hcl and yaml packages. A FileLoader combines them and picks
// one per file by extension, so a directory may mix formats freely.
package config
