package main

import (
	"embed"
)

//go:embed configs/modelpulse.yaml
var configsFS embed.FS

// starterConfig returns the embedded starter configuration that the init
// command writes to disk.
func starterConfig() []byte {
	data, err := configsFS.ReadFile("configs/modelpulse.yaml")
	if err != nil {
		// The asset is compiled in; failing to read it is a build defect.
		panic(err)
	}
	return data
}
