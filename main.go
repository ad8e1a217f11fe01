// Package main is the entry point for the rezip CLI.
package main

import "rezip.dev/pkg/rezip/cmd"

func main() {
	cmd.Execute()
}
