package main

import "github.com/oshokin/universe-sidecar/cmd/sidecar-packager/cmd"

func main() {
	cmd.Execute()
}
