// Package main is the entry point for the windowkit reference host.
package main

func main() {
	Execute()
}
