// Command resumectl runs the resume conversions locally: JSON imports,
// PDF/DOCX extraction, generation from a master profile and validation.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
