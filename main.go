// Package main provides the entry point for the glyph-ocr command line tool.
package main

import (
	"os"

	"glyph-ocr/internal/cli"
	"glyph-ocr/internal/logger"
)

func main() {
	if err := cli.Run(os.Args[1:], logger.NewConsoleLogger(logger.ParseLevel("error"))); err != nil {
		os.Exit(1)
	}
}
