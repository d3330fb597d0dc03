package main

import "github.com/truelossless/cugparck/cmd"

func main() {
	cmd.Execute()
}
