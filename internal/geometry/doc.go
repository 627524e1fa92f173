// Package geometry implements the N-dimensional rotation and projection math
// the exporter renders with: plane name parsing, rotation matrix composition
// over arbitrary dimensions, perspective projection down to 3-D, and hypercube
// scaffolding for the wireframe scene.
//
// All functions are pure and operate on flat row-major matrices.
package geometry
