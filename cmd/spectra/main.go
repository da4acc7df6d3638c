// SPDX-License-Identifier: MIT

// Command spectra decomposes matrices from YAML fixtures with the implicit
// QR engine.
package main

import (
	"os"

	"github.com/katalvlaran/spectra/cmd/spectra/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
