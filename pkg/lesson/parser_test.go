package lesson

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractObjective(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "labeled objective line",
			text: "Objective: Add fractions with unlike denominators.\nThen practice.",
			want: "Add fractions with unlike denominators.",
		},
		{
			name: "objective mid-text",
			text: "Here is the plan.\nLearning objective - compare two fractions.\nEnjoy.",
			want: "compare two fractions.",
		},
		{
			name: "case insensitive label",
			text: "OBJECTIVE: Identify the main idea of a paragraph.",
			want: "Identify the main idea of a paragraph.",
		},
		{
			name: "objective word with nothing after it",
			text: "Today's objective\nRead one paragraph.",
			want: "Today's objective",
		},
		{
			name: "no objective keyword falls back to first line",
			text: "\n\nStart with a warm-up problem.\nThen continue.",
			want: "Start with a warm-up problem.",
		},
		{
			name: "empty text",
			text: "",
			want: "",
		},
		{
			name: "whitespace only",
			text: "   \n\t\n",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractObjective(tt.text))
		})
	}
}
