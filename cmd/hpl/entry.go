package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hpl/interpreter-go/pkg/checker"
	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/interpreter"
)

func runEntry(args []string, mode executionMode) int {
	flags, positional, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", modeCommandLabel(mode), err)
		return 1
	}
	if len(positional) == 0 {
		fmt.Fprintf(os.Stderr, "%s requires a source file\n", modeCommandLabel(mode))
		return 1
	}
	if len(positional) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(positional[1:], " "))
		return 1
	}
	return executeEntry(positional[0], flags, mode)
}

func executeEntry(entry string, flags runFlags, mode executionMode) int {
	entryAbs, err := filepath.Abs(strings.TrimSpace(entry))
	if err != nil {
		fmt.Fprintf(os.Stderr, "resolve entry path: %v\n", err)
		return 1
	}

	project, err := loadProjectContext(filepath.Dir(entryAbs))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}

	program, err := driver.NewLoader().Load(entryAbs)
	if err == nil && flags.call != "" {
		err = program.SetCall(flags.call)
	}
	if err != nil {
		return reportLoadFailure(err, flags)
	}

	if mode == modeCheck {
		return reportCheck(program, entryAbs)
	}

	opts := project.interpreterOptions(flags)
	if !flags.json {
		opts.Output = os.Stdout
	}
	outcome := interpreter.New(program, opts).Run()
	if flags.json {
		return printOutcome(outcome)
	}
	if !outcome.Success {
		fmt.Fprintln(os.Stderr, interpreter.DescribeRuntimeDiagnostic(outcome.Diagnostic()))
		return 1
	}
	return 0
}

func reportCheck(program *driver.Program, entryAbs string) int {
	result, err := checker.NewProgramChecker().Check(program)
	if err != nil {
		fmt.Fprintf(os.Stderr, "check error: %v\n", err)
		return 1
	}
	for _, diag := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, checker.DescribeDiagnostic(diag))
	}
	if result.HasErrors() {
		return 1
	}
	fmt.Fprintf(os.Stdout, "%s: ok\n", entryAbs)
	return 0
}

func reportLoadFailure(err error, flags runFlags) int {
	if flags.json {
		return printOutcome(interpreter.FailureOutcome(err, ""))
	}
	var parseErr *driver.ParserDiagnosticError
	if errors.As(err, &parseErr) {
		fmt.Fprintln(os.Stderr, driver.DescribeParserDiagnostic(parseErr.Diagnostic))
		return 1
	}
	fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
	return 1
}

func printOutcome(outcome interpreter.Outcome) int {
	data, err := outcome.JSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, string(data))
	if !outcome.Success {
		return 1
	}
	return 0
}
