// Package universe implements the HTTP transport of the sidecar.
//
// Every route is a stateless GET returning JSON. The router is built per
// server instance by NewRouter; there is no package-level state.
package universe
