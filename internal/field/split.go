package field

// split.go has functions to split tag strings at a comma separator but allowing for brackets, quotes, etc

import (
	"fmt"
	"strings"
)

// SplitArgs splits a string on commas and returns the resulting slice of strings.
// It ignores commas within strings, round brackets, square brackets or braces, which
// allows for "nested" structures. For example "a,b(c,d),e"  => []string{ "a", "b(c,d)", "e" }
// An error is returned if there is a problem with the input string such as unmatched brackets.
func SplitArgs(s string) ([]string, error) {
	commas, _, err := scan(s, false)
	if err != nil {
		return nil, err
	}
	return cut(s, commas), nil
}

// SplitWithDesc is like SplitArgs but also allows a trailing "description" (anything after the first #
// that is not inside brackets or a string).
// On success, it returns a list of strings, the description (if any) and a nil error.
func SplitWithDesc(s string) ([]string, string, error) {
	commas, hash, err := scan(s, true)
	if err != nil {
		return nil, "", err
	}
	desc := ""
	if hash > -1 {
		desc = s[hash+1:]
		s = s[:hash]
	}
	return cut(s, commas), desc, nil
}

// scan finds the (byte) positions of all the "top-level" commas in s, ie those not enclosed in a
// string or any type of brackets.  If stopAtHash is true scanning ends at the first top-level hash (#)
// and its position is returned as the 2nd value, otherwise (or if there is no such hash) -1 is returned.
func scan(s string, stopAtHash bool) (commas []int, hash int, err error) {
	var round, square, brace int
	var inString bool
	hash = -1
loop:
	for i, c := range s {
		if inString {
			if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '(':
			round++
		case '[':
			square++
		case '{':
			brace++
		case ')':
			if round--; round < 0 {
				return nil, -1, fmt.Errorf("unmatched right bracket ')' in %q", s)
			}
		case ']':
			if square--; square < 0 {
				return nil, -1, fmt.Errorf("unmatched right square bracket ']' in %q", s)
			}
		case '}':
			if brace--; brace < 0 {
				return nil, -1, fmt.Errorf("unmatched right brace '}' in %q", s)
			}
		case ',':
			if round == 0 && square == 0 && brace == 0 {
				commas = append(commas, i)
			}
		case '#':
			if stopAtHash && round == 0 && square == 0 && brace == 0 {
				hash = i
				break loop
			}
		}
	}
	switch {
	case inString:
		return nil, -1, fmt.Errorf("unmatched quote (unterminated string) in %q", s)
	case round > 0:
		return nil, -1, fmt.Errorf("unmatched left bracket '(' in %q", s)
	case square > 0:
		return nil, -1, fmt.Errorf("unmatched left square bracket '[' in %q", s)
	case brace > 0:
		return nil, -1, fmt.Errorf("unmatched left brace '{' in %q", s)
	}
	return commas, hash, nil
}

// cut splits s at the given positions, trimming spaces from each part
func cut(s string, positions []int) []string {
	r := make([]string, 0, len(positions)+1)
	start := 0
	for _, pos := range positions {
		r = append(r, strings.Trim(s[start:pos], " "))
		start = pos + 1
	}
	return append(r, strings.Trim(s[start:], " "))
}
