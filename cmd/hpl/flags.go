package main

import (
	"fmt"
	"strconv"
	"strings"

	"hpl/interpreter-go/pkg/interpreter"
)

// runFlags are the options shared by run, check and repl. Flags may appear
// before or after the source file.
type runFlags struct {
	call     string
	json     bool
	maxDepth int
	paths    []string
}

func parseRunFlags(args []string) (runFlags, []string, error) {
	var flags runFlags
	remaining := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			remaining = append(remaining, args[i+1:]...)
			break
		}
		name, value, hasValue := strings.Cut(arg, "=")
		takeValue := func() (string, error) {
			if hasValue {
				return value, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s expects a value", name)
			}
			i++
			return args[i], nil
		}
		switch name {
		case "--json":
			if hasValue {
				return flags, nil, fmt.Errorf("--json does not take a value")
			}
			flags.json = true
		case "--call":
			v, err := takeValue()
			if err != nil {
				return flags, nil, err
			}
			if strings.TrimSpace(v) == "" {
				return flags, nil, fmt.Errorf("--call expects a value")
			}
			flags.call = v
		case "--max-depth":
			v, err := takeValue()
			if err != nil {
				return flags, nil, err
			}
			depth, err := parseMaxDepth(v)
			if err != nil {
				return flags, nil, err
			}
			flags.maxDepth = depth
		case "--path":
			v, err := takeValue()
			if err != nil {
				return flags, nil, err
			}
			flags.paths = append(flags.paths, v)
		default:
			if strings.HasPrefix(arg, "--") {
				return flags, nil, fmt.Errorf("unknown flag '%s'", name)
			}
			remaining = append(remaining, arg)
		}
	}
	return flags, remaining, nil
}

func parseMaxDepth(value string) (int, error) {
	depth, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || depth <= 0 {
		return 0, fmt.Errorf("--max-depth expects a positive integer (got '%s')", value)
	}
	if depth > interpreter.MaxDepthLimit {
		return 0, fmt.Errorf("--max-depth must be at most %d (got %d)", interpreter.MaxDepthLimit, depth)
	}
	return depth, nil
}
