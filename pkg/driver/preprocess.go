package driver

import (
	"regexp"
	"strings"
)

var arrowHeader = regexp.MustCompile(`^(\s*)(\w+):\s*\(.*\)\s*=>.*\{`)

// arrowOrigin maps a rewritten `key: |` line back to the original document.
// Line is the 1-based line of the definition; Column is the 0-based column
// where the function text started on that line.
type arrowOrigin struct {
	Line   int
	Column int
}

// sourceMap relates lines of the preprocessed text to the original document.
type sourceMap struct {
	lines  []int
	arrows map[int]arrowOrigin
}

func (m sourceMap) originalLine(line int) int {
	if line >= 1 && line <= len(m.lines) {
		return m.lines[line-1]
	}
	return line
}

// preprocessArrows rewrites every `key: (params) => { ... }` definition into a
// YAML block scalar so the outer document parses as plain structured data.
// Continuation lines are copied verbatim behind the block indentation, which
// keeps their columns identical to the original source.
func preprocessArrows(content string) (string, sourceMap) {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	smap := sourceMap{lines: make([]int, 0, len(lines)), arrows: make(map[int]arrowOrigin)}
	emit := func(text string, original int) {
		out = append(out, text)
		smap.lines = append(smap.lines, original)
	}

	for i := 0; i < len(lines); {
		line := lines[i]
		match := arrowHeader.FindStringSubmatchIndex(line)
		if match == nil {
			emit(line, i+1)
			i++
			continue
		}
		indent := line[match[2]:match[3]]
		keyEnd := match[5]
		valueStart := keyEnd + 1
		for valueStart < len(line) && (line[valueStart] == ' ' || line[valueStart] == '\t') {
			valueStart++
		}

		depth := braceDelta(line[valueStart:])
		j := i + 1
		for depth > 0 && j < len(lines) {
			depth += braceDelta(lines[j])
			j++
		}

		smap.arrows[len(out)+1] = arrowOrigin{Line: i + 1, Column: valueStart}
		emit(line[:keyEnd]+": |", i+1)
		emit(indent+"  "+strings.TrimRight(line[valueStart:], " \t\r"), i+1)
		for k := i + 1; k < j; k++ {
			emit(indent+"  "+strings.TrimRight(lines[k], "\r"), k+1)
		}
		i = j
	}
	return strings.Join(out, "\n"), smap
}

// braceDelta counts opening minus closing braces, ignoring braces inside
// string literals and # comments.
func braceDelta(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '#':
			return delta
		case '{':
			delta++
		case '}':
			delta--
		}
	}
	return delta
}
