// Package main provides the shade command-line client for shaded.
package main

func main() {
	Execute()
}
