package retrain

import "strings"

// Decode turns uploaded bytes into text. Invalid UTF-8 sequences are
// dropped, never replaced, so a run of garbage bytes cannot create a line.
func Decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

// isLineBreak reports whether r terminates a line under universal-newline
// rules. \r is handled by the caller because \r\n counts once.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// CountLines counts the lines of s. A terminator at the very end does not
// open a new line, so "a\nb\n" and "a\nb" both hold two lines and "" holds none.
func CountLines(s string) int {
	lines := 0
	open := false
	prevCR := false
	for _, r := range s {
		switch {
		case r == '\n' && prevCR:
			// second half of \r\n, already counted
			prevCR = false
			continue
		case r == '\r':
			lines++
			open = false
			prevCR = true
			continue
		case isLineBreak(r):
			lines++
			open = false
		default:
			open = true
		}
		prevCR = false
	}
	if open {
		lines++
	}
	return lines
}

// CountSamples returns the number of data rows in a CSV upload: every line
// after the header, floored at zero.
func CountSamples(data []byte) int {
	return max(0, CountLines(Decode(data))-1)
}
