// Package pattern provides delimiter patterns that avoid the regexp
// engine for the common cases. All of them satisfy splitter.Pattern;
// Fixed additionally bounds its match width, which lets the splitter
// skip re-scanning old bytes after every fill.
package pattern

import "bytes"

// Fixed matches one literal byte sequence. The sequence must be
// non-empty; an empty Fixed never matches.
//
//	splitter.New(r, pattern.Fixed("\r\n"))
type Fixed []byte

func (f Fixed) FindIndex(b []byte) []int {
	if len(f) == 0 {
		return nil
	}
	i := bytes.Index(b, f)
	if i < 0 {
		return nil
	}
	return []int{i, i + len(f)}
}

// MaxWidth reports the exact width of every match.
func (f Fixed) MaxWidth() int { return len(f) }

// Runs matches a maximal run of one or more bytes drawn from the set,
// like the regexp [set]+ but without the engine. Match width is
// unbounded, so the splitter falls back to its conservative re-scan.
type Runs []byte

func (r Runs) FindIndex(b []byte) []int {
	for i := 0; i < len(b); i++ {
		if !r.contains(b[i]) {
			continue
		}
		j := i + 1
		for j < len(b) && r.contains(b[j]) {
			j++
		}
		return []int{i, j}
	}
	return nil
}

func (r Runs) contains(c byte) bool {
	return bytes.IndexByte(r, c) >= 0
}
