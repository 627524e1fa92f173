// Package render defines the renderer contract the export scheduler drives
// and a software wireframe implementation of it.
//
// The scheduler treats the renderer as an external collaborator: it feeds
// synthetic timestamps through Advance and reads frames back for capture.
// Size, pixel ratio, and quality flags are captured before an export mutates
// them and restored exactly once when the export finishes.
package render
