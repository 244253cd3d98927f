// Package main is the entry point for the aac-doc CLI.
package main

import "github.com/DevOps-MBSE/aac-doc-mdl/cmd"

func main() {
	cmd.Execute()
}
