package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"hpl/interpreter-go/pkg/driver"
	"hpl/interpreter-go/pkg/interpreter"
	"hpl/interpreter-go/pkg/lexer"
	"hpl/interpreter-go/pkg/parser"
	"hpl/interpreter-go/pkg/runtime"
)

const (
	historyFile = ".hpl_history"
	promptMain  = "hpl> "
	promptCont  = "...> "
)

func runRepl(args []string) int {
	flags, positional, err := parseRunFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hpl repl: %v\n", err)
		return 1
	}
	if len(positional) > 1 || flags.json || flags.call != "" {
		fmt.Fprintf(os.Stderr, "hpl repl takes at most one source file and no --json or --call\n")
		return 1
	}

	base := "."
	var program *driver.Program
	if len(positional) == 1 {
		program, err = driver.NewLoader().Load(positional[0])
		if err != nil {
			return reportLoadFailure(err, flags)
		}
		base = program.Dir()
	}
	project, err := loadProjectContext(base)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	opts := project.interpreterOptions(flags)
	opts.Output = os.Stdout
	session := interpreter.NewSessionForProgram(program, opts)

	fmt.Fprintf(os.Stdout, "%s (type :quit to exit)\n", cliToolVersion)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(histPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	for {
		code, ok := readChunk(ln)
		if !ok {
			fmt.Fprintln(os.Stdout)
			return 0
		}
		trimmed := strings.TrimSpace(code)
		switch {
		case trimmed == "":
			continue
		case trimmed == ":quit" || trimmed == ":q":
			return 0
		case strings.HasPrefix(trimmed, ":"):
			fmt.Fprintln(os.Stdout, "unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		val, err := session.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, session.Describe(err))
			continue
		}
		if _, isNull := val.(runtime.NilValue); !isNull {
			fmt.Fprintln(os.Stdout, runtime.Format(val))
		}
	}
}

// readChunk reads lines until they form a complete statement list. A blank
// line ends a chunk that still does not parse, so the error gets reported.
func readChunk(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}
		if b.Len() > 0 {
			if strings.TrimSpace(line) == "" {
				return b.String(), true
			}
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if !needsMoreInput(b.String()) {
			return b.String(), true
		}
	}
}

func needsMoreInput(source string) bool {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return false
	}
	_, err = parser.ParseBlock(tokens)
	var parseErr *parser.ParseError
	return errors.As(err, &parseErr) && parseErr.Incomplete
}
