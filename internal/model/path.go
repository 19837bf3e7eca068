package model

import "strings"

// IsValidPathSegment reports whether s can be used as a single directory name.
func IsValidPathSegment(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, `/\`) && !strings.ContainsRune(s, 0)
}
