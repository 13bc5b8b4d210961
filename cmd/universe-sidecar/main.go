package main

import "github.com/oshokin/universe-sidecar/cmd/universe-sidecar/cmd"

func main() {
	cmd.Execute()
}
