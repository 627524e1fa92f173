// Package scene owns the mutable animation state of the N-dimensional
// wireframe: per-plane rotation angles advanced by synthetic deltas, the
// composed rotation transform, and snapshot/restore used to keep preview
// passes from disturbing the recording timeline.
package scene
