package utils

import (
	"strconv"
	"strings"
)

// ParseIntOption parses a string value to an integer, returning 0 if the string is empty or invalid
func ParseIntOption(value string) int {
	if value == "" {
		return 0
	}
	num, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return num
}

// ParseBoolOption parses a string flag, treating "true", "1" and "yes" as true
func ParseBoolOption(value string) bool {
	return value == "true" || value == "1" || value == "yes"
}

// SplitCSV splits a comma-separated list, trimming whitespace and dropping
// empty entries
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
