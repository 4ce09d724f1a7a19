package main

import (
	"fmt"
	"os"
)

func modeCommandLabel(mode executionMode) string {
	switch mode {
	case modeCheck:
		return "hpl check"
	default:
		return "hpl run"
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  hpl [run] <file.hpl> [--call target] [--json] [--max-depth N] [--path dir]...")
	fmt.Fprintln(os.Stderr, "  hpl check <file.hpl>")
	fmt.Fprintln(os.Stderr, "  hpl repl [file.hpl] [--path dir]...")
	fmt.Fprintln(os.Stderr, "  hpl deps install")
	fmt.Fprintln(os.Stderr, "  hpl deps list")
	fmt.Fprintln(os.Stderr, "  hpl --version")
}
