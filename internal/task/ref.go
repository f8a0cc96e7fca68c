package task

import (
	"strconv"
	"strings"
)

// minPrefixLen is the shortest id prefix accepted as a task reference.
const minPrefixLen = 4

// idRefPrefix forces id addressing for prefixes made only of digits.
const idRefPrefix = "id:"

// Ref identifies a task either by its 1-based display position or by a
// prefix of its stable id.
type Ref struct {
	Input    string
	Position int    // 1-based; 0 when the reference is an id prefix
	IDPrefix string // normalized (lowercase, no dashes)
}

// ParseRef parses a task reference.
//
//   - all digits: 1-based position in the displayed list ("3")
//   - "id:" followed by hex: id prefix, even if all digits ("id:1234")
//   - otherwise: id prefix of at least 4 hex characters ("9f2c", "9f2c41d0-...")
func ParseRef(input string) (Ref, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return Ref{}, ValidateRef(input)
	}

	forceID := strings.HasPrefix(strings.ToLower(s), idRefPrefix)
	if forceID {
		s = s[len(idRefPrefix):]
	}

	if !forceID && isAllDigits(s) {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return Ref{}, ValidateRef(input)
		}
		return Ref{Input: input, Position: n}, nil
	}

	prefix := strings.ToLower(strings.ReplaceAll(s, "-", ""))
	if len(prefix) < minPrefixLen || !isHex(prefix) {
		return Ref{}, ValidateRef(input)
	}
	return Ref{Input: input, IDPrefix: prefix}, nil
}

// Resolve returns the 0-based index in ids that ref addresses. list names
// the list being searched and only appears in error messages.
func (r Ref) Resolve(ids []string, list string) (int, error) {
	if r.Position > 0 {
		if r.Position > len(ids) {
			return 0, NotFound(r.Input, list)
		}
		return r.Position - 1, nil
	}

	found := -1
	matches := 0
	for i, id := range ids {
		if strings.HasPrefix(strings.ReplaceAll(strings.ToLower(id), "-", ""), r.IDPrefix) {
			found = i
			matches++
		}
	}
	switch {
	case matches == 0:
		return 0, NotFound(r.Input, list)
	case matches > 1:
		return 0, Ambiguous(r.Input, matches)
	}
	return found, nil
}

func isAllDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func isHex(s string) bool {
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return s != ""
}
