package repository

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		query   string
		pattern string
	}{
		{"", ""},
		{"j", "j"},
		{"jn", "j.*n"},
		{"ann", "a.*n.*n"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pattern, SearchPattern(tt.query))
	}
}

func TestSearchPattern_SubsequenceMatching(t *testing.T) {
	tests := []struct {
		query   string
		name    string
		matches bool
	}{
		{"jn", "John", true},
		{"jn", "Jane", true},
		{"jn", "Ann", false},
		{"al", "Alice", true},
		{"ael", "Ann Lee", false},
		{"anle", "Ann Lee", true},
	}

	for _, tt := range tests {
		re := regexp.MustCompile("(?i)" + SearchPattern(tt.query))
		assert.Equal(t, tt.matches, re.MatchString(tt.name),
			"query %q against %q", tt.query, tt.name)
	}
}
