package conversations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "short text kept as-is",
			in:   "Explain recursion",
			want: "Explain recursion",
		},
		{
			name: "markdown control characters stripped",
			in:   "# **Hello** `world` _now_ ~ok~ [link]",
			want: "Hello world now ok link",
		},
		{
			name: "empty input falls back to placeholder",
			in:   "",
			want: DefaultTitle,
		},
		{
			name: "markdown-only input falls back to placeholder",
			in:   "### ``` ***",
			want: DefaultTitle,
		},
		{
			name: "long text truncated at a word boundary with ellipsis",
			in:   "# Hello world, this is a fairly long first message that should be truncated somewhere",
			want: "Hello world, this is a fairly long first message...",
		},
		{
			name: "long unbroken text hard-truncated at 50",
			in:   strings.Repeat("a", 80),
			want: strings.Repeat("a", 50) + "...",
		},
		{
			name: "whitespace trimmed",
			in:   "   hi there   ",
			want: "hi there",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveTitle(tt.in)
			assert.Equal(t, tt.want, got)
			// Deterministic for the same input.
			assert.Equal(t, got, DeriveTitle(tt.in))
			// 50 characters plus the ellipsis at most.
			assert.LessOrEqual(t, len([]rune(got)), 53)
		})
	}
}

func TestDeriveTitle_EllipsisOnlyWhenTruncated(t *testing.T) {
	assert.False(t, strings.HasSuffix(DeriveTitle("Explain recursion"), "..."))
	assert.True(t, strings.HasSuffix(DeriveTitle(strings.Repeat("word ", 30)), "..."))
}
