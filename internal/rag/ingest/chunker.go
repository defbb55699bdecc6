package ingest

import (
	"errors"
	"fmt"
)

// Separators ordered from "best" to "worst" for semantic meaning
var breakpoints = [][]rune{
	[]rune("\n\n"),
	[]rune("\n"),
	[]rune(". "),
	[]rune("! "),
	[]rune("? "),
	[]rune(" "),
}

var ErrInvalidChunkConfig = errors.New("invalid chunk configuration")

// Split cuts text into windows of at most size characters. Consecutive windows share
// exactly overlap characters, so dropping the first overlap characters of every window
// after the first and concatenating gives back the original text.
func Split(text string, size int, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, size, overlap)
	}

	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil, nil
	}
	if n <= size {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for {
		end := start + size
		if end >= n {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		cut := findCut(runes, start, end, overlap, size)
		chunks = append(chunks, string(runes[start:cut]))
		start = cut - overlap
	}
	return chunks, nil
}

// findCut returns the end of the window starting at start. The cut lands right after the best
// separator found in the back half of the window, and always more than overlap characters
// after start so the next window moves forward.
func findCut(runes []rune, start, end, overlap, size int) int {
	minCut := start + max(overlap+1, size/2)

	for _, sep := range breakpoints {
		for cut := end; cut >= minCut; cut-- {
			if cut-len(sep) < start {
				break
			}
			if hasSuffixAt(runes, cut, sep) {
				return cut
			}
		}
	}
	// hard cut
	return end
}

func hasSuffixAt(runes []rune, pos int, sep []rune) bool {
	if pos < len(sep) {
		return false
	}
	for i := range sep {
		if runes[pos-len(sep)+i] != sep[i] {
			return false
		}
	}
	return true
}
