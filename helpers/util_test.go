package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a somewhat longer headline", 10, "a somewhat..."},
		{"", 5, ""},
		{"anything", 0, ""},
		{"anything", -1, ""},
		{"한국어 제목이 길어지면", 5, "한국어 제..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.s, tt.n), "Truncate(%q, %d)", tt.s, tt.n)
	}
}
