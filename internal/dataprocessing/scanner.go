package dataprocessing

import "strings"

// Scanner locates literal markers in log text.
// Implementations must be safe for concurrent use.
type Scanner interface {
	// FindAll returns the start offset of every match in increasing order.
	// After a hit the search resumes one byte later, so overlapping matches are reported.
	FindAll(text, marker string) []int
	// FindFirst returns the first match at or after from.
	FindFirst(text, marker string, from int) (int, bool)
}

// LiteralScanner is a case-sensitive byte-wise substring scanner
type LiteralScanner struct{}

// NewLiteralScanner returns the default scanner
func NewLiteralScanner() LiteralScanner {
	return LiteralScanner{}
}

// FindAll implements Scanner
func (LiteralScanner) FindAll(text, marker string) []int {
	if marker == "" {
		return nil
	}
	var offsets []int
	from := 0
	for from <= len(text)-len(marker) {
		i := strings.Index(text[from:], marker)
		if i < 0 {
			break
		}
		offsets = append(offsets, from+i)
		from += i + 1
	}
	return offsets
}

// FindFirst implements Scanner
func (LiteralScanner) FindFirst(text, marker string, from int) (int, bool) {
	if marker == "" || from < 0 || from > len(text) {
		return -1, false
	}
	i := strings.Index(text[from:], marker)
	if i < 0 {
		return -1, false
	}
	return from + i, true
}
