// Package server runs the sidecar's HTTP listener on the loopback interface.
//
// It wires the universe routes behind access logging, panic recovery, CORS
// for the desktop webview and security headers, then serves until the
// context is cancelled.
package server
