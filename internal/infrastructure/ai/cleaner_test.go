package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLabels(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "leading label", in: "Prompt: A fox in the snow", want: "A fox in the snow"},
		{name: "leading phrase and quotes", in: `Here's a prompt: "A fox in the snow"`, want: "A fox in the snow"},
		{name: "inline label", in: "Content: A fox. Mood: serene and quiet", want: "A fox. serene and quiet"},
		{name: "blank runs", in: "First.\n\n\n\nSecond.", want: "First.\n\nSecond."},
		{name: "plain text untouched", in: "A fox in the snow", want: "A fox in the snow"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanLabels(tt.in, ""))
		})
	}
}

func TestCleanEchoStripsInput(t *testing.T) {
	input := "You are an expert.\n\nCreate a prompt."
	raw := input + "\n\nPrompt: A fox in the snow"

	assert.Equal(t, "A fox in the snow", cleanEcho(raw, input))
}

func TestCleanEchoKeepsParaphrasedInput(t *testing.T) {
	raw := "you are an expert. A fox in the snow"

	assert.Equal(t, raw, cleanEcho(raw, "You are an expert."))
}

func TestCleanLlamaOutput(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pad token and self evaluation",
			in:   "A misty forest at dawn.<|pad|>\n\nThis response meets the requirements of the task.",
			want: "A misty forest at dawn.",
		},
		{
			name: "special tokens",
			in:   "<|assistant|>A misty forest at dawn.</s>",
			want: "A misty forest at dawn.",
		},
		{
			name: "leading meta line",
			in:   "Here is a detailed prompt for you\nA misty forest at dawn.",
			want: "A misty forest at dawn.",
		},
		{
			name: "meta commentary line",
			in:   "A misty forest at dawn.\nI've ensured every detail fits.\nSoft light filters through.",
			want: "A misty forest at dawn.\nSoft light filters through.",
		},
		{
			name: "descriptive first line kept",
			in:   "Here's a prompt for your image:\n\nHere is a quiet fishing village at dawn.\n\nA weathered fisherman mends his nets.",
			want: "Here is a quiet fishing village at dawn.\n\nA weathered fisherman mends his nets.",
		},
		{
			name: "stray pipes",
			in:   "A misty forest at dawn. | |",
			want: "A misty forest at dawn.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanLlamaOutput(tt.in, ""))
		})
	}
}

func TestCleanersAreIdempotent(t *testing.T) {
	inputs := []string{
		`Prompt: "Prompt: A fox"`,
		"Title: Description: Content: A fox.\n\n\n\nStyle: watercolor",
		"<|pad|>Image prompt: x\nA fox.<|pad|> | |\n\nThis prompt follows all the instructions.",
		"\"quoted\"",
		"A fox.\n\n\n\n\n\nA hound.",
		strings.Repeat("Prompt: ", 10) + "a misty valley",
		strings.Repeat(`"`, 20) + "a misty valley" + strings.Repeat(`"`, 20),
		strings.Repeat("Here's a prompt:\n", 14) + "a misty valley",
	}
	cleaners := map[string]cleanFunc{
		"labels": cleanLabels,
		"echo":   cleanEcho,
		"llama":  cleanLlamaOutput,
	}
	for name, clean := range cleaners {
		for _, in := range inputs {
			once := clean(in, "")
			assert.Equal(t, once, clean(once, ""), "%s cleaner on %q", name, in)
			assert.NotContains(t, once, "Prompt: ", "%s cleaner on %q", name, in)
		}
	}
}

func TestApplyPrefix(t *testing.T) {
	assert.Equal(t, "masterpiece, A fox", applyPrefix("A fox", "  masterpiece,  "))
	assert.Equal(t, "A fox", applyPrefix("A fox", "   "))
	assert.Equal(t, "A fox", applyPrefix("A fox", ""))
}
