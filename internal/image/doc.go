// Package image accumulates the registrations produced during a build and
// renders them into the output image manifest: embedded resources,
// classes deferred to run-time initialization, and fields opened up for
// native access.
//
// The builder is written to concurrently by analysis workers, so every
// mutation takes the builder lock. Conflicting registrations (embedding
// the same resource path twice) indicate a feature bug and panic rather
// than silently overwrite.
package image
