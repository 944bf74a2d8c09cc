// Package main provides the entry point for the CategoryScanner CLI.
package main

func main() {
	Execute()
}
