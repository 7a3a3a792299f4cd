// Package hcl implements config.Loader for HCL program manifests.
//
// A manifest describes the compiling program declaratively: an image
// block with entry points and resource roots, and class blocks carrying
// declared fields and methods with outgoing call edges. Manifests may
// interpolate the build's target platform via the "platform" and "arch"
// variables, which lets one manifest tree serve cross-platform builds.
package hcl
