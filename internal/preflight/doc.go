// Package preflight provides readiness checks for the filesystem paths and
// external binaries an export depends on.
//
// These checks run in two contexts:
//   - The scheduler calls Require between settings validation and the first
//     side effect, so a doomed run fails before the renderer is touched.
//   - The CLI "mdxport status" command uses RunAll to display readiness.
package preflight
