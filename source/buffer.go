// Package source owns the raw script text and a line index so tokens
// can carry byte offsets and callers can recover exact source slices
// for JSON and SQL literals (spec §3.1).
package source

import "strings"

// Buffer is the UTF-8 text of one script plus a precomputed line index.
type Buffer struct {
	Path string
	Text string

	// lineStarts[i] is the byte offset of the first byte of line i+1.
	lineStarts []int
}

// New builds a Buffer over text, indexing line starts once up front.
func New(path, text string) *Buffer {
	b := &Buffer{Path: path, Text: text, lineStarts: []int{0}}
	for i, ch := range text {
		if ch == '\n' {
			b.lineStarts = append(b.lineStarts, i+1)
		}
	}
	return b
}

// LineAt returns the 1-based line number containing byte offset pos.
func (b *Buffer) LineAt(pos int) int {
	// lineStarts is sorted; find the last start <= pos.
	lo, hi := 0, len(b.lineStarts)-1
	line := 1
	for lo <= hi {
		mid := (lo + hi) / 2
		if b.lineStarts[mid] <= pos {
			line = mid + 1
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return line
}

// Slice returns the exact source text between byte offsets [start, end).
func (b *Buffer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(b.Text) {
		end = len(b.Text)
	}
	if start >= end {
		return ""
	}
	return b.Text[start:end]
}

// LineText returns the full text of the given 1-based line, without
// its trailing newline.
func (b *Buffer) LineText(line int) string {
	if line < 1 || line > len(b.lineStarts) {
		return ""
	}
	start := b.lineStarts[line-1]
	end := len(b.Text)
	if line < len(b.lineStarts) {
		end = b.lineStarts[line] - 1
	}
	return strings.TrimRight(b.Text[start:end], "\r")
}
