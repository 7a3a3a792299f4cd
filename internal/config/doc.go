// Package config defines the format-agnostic model of a program manifest:
// the classes, fields, methods, and call edges visible to the image build,
// plus the image-level settings (entry points, resource roots).
//
// The model is produced by a format-specific Loader (see the hcl package)
// and consumed by the catalog and analysis layers, which never touch the
// source format directly.
package config
