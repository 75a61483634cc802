package ai

import (
	"regexp"
	"strings"
)

// cleanFunc post-processes provider output. input is the exact text sent to
// the provider, for cleaners that strip an echoed prompt.
type cleanFunc func(text, input string) string

var (
	leadingLabelRe = regexp.MustCompile(`(?i)^(Title|Prompt|Image Prompt|Here's a prompt|Here is a prompt|Description):\s*`)
	quotedRe       = regexp.MustCompile(`^"(.*)"$`)
	inlineLabelRe  = regexp.MustCompile(`(?i)\b(Content|Character|Style|Setting|Background|Mood|Lighting|Details):\s+`)
	lineLabelRe    = regexp.MustCompile(`(?i)\n\s*\b(Content|Character|Style|Setting|Background|Mood|Lighting|Details):\s*`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)

	specialTokenRe = regexp.MustCompile(`<\|reserved_special_token_\d+\|>|<\|system\|>|<\|end_header\|>|<\|user\|>|<\|assistant\|>|\|</assistant\|>|</assistant\|>|<\|endoftext\|>|<\|pad\|>|</s>`)
	leadingMetaRe  = regexp.MustCompile(`(?i)^(I'll create|Here's a|Here is a|A detailed image prompt|Image prompt:|This prompt describes|This image prompt|Final Image Prompt:|Prompt:).*`)
	selfEvalRe     = regexp.MustCompile(`(?s)(This response meets the requirements|Note: I've woven the parameters|I've created a cohesive image prompt|This prompt follows all the instructions|I've organized this into four paragraphs|The prompt is now complete and ready).*`)
	trailingPipeRe = regexp.MustCompile(`\|\s*$`)
	trailingPadRe  = regexp.MustCompile(`\s*<\|pad\|>\s*$`)
	pipeRunRe      = regexp.MustCompile(`(\|\s*)+$`)
	doublePipeRe   = regexp.MustCompile(`\|\s*\|`)
)

var metaCommentaryPhrases = []string{
	"meets the requirements",
	"following the guidelines",
	"four paragraphs",
	"I've ensured",
	"I've followed",
	"I've created",
	"woven the parameters",
	"without using headers",
	"cohesive narrative",
}

// untilStable repeats fn until the text stops changing, so every cleaner is
// idempotent on its own output. fn must only ever shorten text it changes.
func untilStable(text string, fn func(string) string) string {
	for {
		next := fn(text)
		if next == text {
			return next
		}
		text = next
	}
}

// cleanLabels strips leading labels, whole-text quoting and inline section
// titles from chat-completion output.
func cleanLabels(text, _ string) string {
	return untilStable(text, cleanLabelsOnce)
}

func cleanLabelsOnce(text string) string {
	if text == "" {
		return ""
	}
	cleaned := leadingLabelRe.ReplaceAllString(text, "")
	cleaned = quotedRe.ReplaceAllString(cleaned, "$1")
	cleaned = strings.TrimSpace(cleaned)

	cleaned = inlineLabelRe.ReplaceAllString(cleaned, "")
	cleaned = lineLabelRe.ReplaceAllString(cleaned, "\n\n")
	cleaned = strings.TrimSpace(cleaned)

	return blankRunRe.ReplaceAllString(cleaned, "\n\n")
}

// cleanEcho removes the echoed input prompt that text-generation endpoints
// prepend to their output, then applies the label cleaner. Only an exact
// echo is recognized.
func cleanEcho(text, input string) string {
	return untilStable(text, func(s string) string {
		if input != "" {
			s = strings.Replace(s, input, "", 1)
		}
		return cleanLabelsOnce(strings.TrimSpace(s))
	})
}

// cleanLlamaOutput strips the special tokens, meta-commentary and
// self-evaluation that instruction-tuned Llama models tend to emit.
func cleanLlamaOutput(text, _ string) string {
	return untilStable(text, cleanLlamaOnce)
}

func cleanLlamaOnce(text string) string {
	cleaned := specialTokenRe.ReplaceAllString(text, "")
	cleaned = stripLeadingMeta(cleaned)
	cleaned = selfEvalRe.ReplaceAllString(cleaned, "")

	lines := strings.Split(cleaned, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if containsAny(line, metaCommentaryPhrases) {
			continue
		}
		kept = append(kept, line)
	}
	cleaned = strings.Join(kept, "\n")

	cleaned = trailingPipeRe.ReplaceAllString(cleaned, "")
	cleaned = trailingPadRe.ReplaceAllString(cleaned, "")
	cleaned = pipeRunRe.ReplaceAllString(cleaned, "")
	cleaned = doublePipeRe.ReplaceAllString(cleaned, "")

	cleaned = strings.TrimSpace(cleaned)
	return blankRunRe.ReplaceAllString(cleaned, "\n\n")
}

// stripLeadingMeta drops a leading meta line only when it introduces a
// prompt: it ends with a colon or mentions the word prompt. A descriptive
// first sentence such as "Here is a quiet village..." is content.
func stripLeadingMeta(text string) string {
	line := leadingMetaRe.FindString(text)
	if line == "" {
		return text
	}
	trimmed := strings.TrimSpace(line)
	if !strings.HasSuffix(trimmed, ":") && !strings.Contains(strings.ToLower(trimmed), "prompt") {
		return text
	}
	return text[len(line):]
}

func containsAny(line string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(line, phrase) {
			return true
		}
	}
	return false
}

// applyPrefix prepends a non-blank prefix separated by one space.
func applyPrefix(text, prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return text
	}
	return prefix + " " + text
}
