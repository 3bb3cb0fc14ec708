// Package main - version.go holds build version information.
package main

import "fmt"

// Version is overridden at build time:
//
//	go build -ldflags "-X main.Version=v0.2.0" ./cmd
var Version = "dev"

// PrintVersion prints the CLI version.
func PrintVersion() {
	fmt.Printf("modelpulse %s\n", Version)
}
