// Package main is the gistit command: it publishes local files as a GitHub
// gist by creating the gist, committing the files to its clone and pushing
// them over SSH.
package main

import "github.com/gistit/gistit/internal"

func main() {
	internal.Run()
}
