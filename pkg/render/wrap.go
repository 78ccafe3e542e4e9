package render

import (
	"strings"
	"unicode"
)

// fill wraps text to width columns. Only the first line carries indent.
// Whitespace characters become single spaces, words may break after a
// hyphen, and a word longer than a line is split across lines.
func fill(text, indent string, width int) string {
	text = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, text)

	chunks := splitChunks(text)
	var lines []string
	for len(chunks) > 0 {
		prefix := ""
		if len(lines) == 0 {
			prefix = indent
		}
		avail := width - len([]rune(prefix))

		// leading whitespace of continuation lines is dropped
		if len(lines) > 0 && isBlank(chunks[0]) {
			chunks = chunks[1:]
			continue
		}

		var line []string
		used := 0
		for len(chunks) > 0 {
			n := len([]rune(chunks[0]))
			if used+n > avail {
				break
			}
			line = append(line, chunks[0])
			used += n
			chunks = chunks[1:]
		}

		if len(chunks) > 0 && len([]rune(chunks[0])) > avail {
			space := avail - used
			if avail < 1 {
				space = 1
			}
			var head string
			head, chunks[0] = breakLongWord(chunks[0], space)
			if head != "" {
				line = append(line, head)
			}
		}

		if len(line) > 0 && isBlank(line[len(line)-1]) {
			line = line[:len(line)-1]
		}
		if len(line) > 0 {
			lines = append(lines, prefix+strings.Join(line, ""))
		}
	}
	return strings.Join(lines, "\n")
}

// breakLongWord splits word so its head fits in space columns, preferring the
// last hyphen that fits.
func breakLongWord(word string, space int) (string, string) {
	if space <= 0 {
		return "", word
	}
	runes := []rune(word)
	if len(runes) <= space {
		return word, ""
	}
	end := space
	if i := strings.LastIndex(string(runes[:space]), "-"); i > 0 && strings.Trim(word[:i], "-") != "" {
		end = len([]rune(word[:i])) + 1
	}
	return string(runes[:end]), string(runes[end:])
}

// splitChunks cuts text into runs of spaces and words, and cuts words after a
// hyphen that sits between a letter or digit and a letter.
func splitChunks(text string) []string {
	var chunks []string
	runes := []rune(text)
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i == len(runes) {
			chunks = append(chunks, string(runes[start:i]))
			break
		}
		prev, cur := runes[i-1], runes[i]
		switch {
		case (prev == ' ') != (cur == ' '):
		case prev == '-' && i >= 2 && isWordRune(runes[i-2]) && unicode.IsLetter(cur):
		default:
			continue
		}
		chunks = append(chunks, string(runes[start:i]))
		start = i
	}
	return chunks
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isBlank(s string) bool {
	return strings.Trim(s, " ") == ""
}
