package util

import "strings"

func RemoveDuplicateStrings(strings []string, ignoreList []string) []string {
	presentStrings := make(map[string]bool)
	var list []string

	for _, ignoreString := range ignoreList {
		presentStrings[ignoreString] = true
	}

	for _, item := range strings {
		if _, value := presentStrings[item]; !value && item != "" {
			presentStrings[item] = true
			list = append(list, item)
		}
	}
	return list
}

// FirstNonBlank returns the first candidate that is not empty after trimming
func FirstNonBlank(candidates ...string) string {
	for _, candidate := range candidates {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}

	return ""
}

// SplitLastComma splits s around its last comma, both halves trimmed.
// ok is false when s has no comma.
func SplitLastComma(s string) (before string, after string, ok bool) {
	index := strings.LastIndex(s, ",")
	if index < 0 {
		return s, "", false
	}

	return strings.TrimSpace(s[:index]), strings.TrimSpace(s[index+1:]), true
}
