// Package packager builds the sidecar executable and publishes it under the
// name the host shell looks up: <base-name>-<target-triple><extension>.
//
// The workflow is sequential and fail-fast: dependency commands, target triple
// resolution, the build command, relocation of the built file and finally a
// manifest entry with the artifact checksum.
package packager
