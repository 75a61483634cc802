package ai

import (
	"fmt"
	"strings"

	"github.com/doeshing/prompty-go/internal/domain"
)

// Section groups configuration keys into one paragraph of the final prompt.
type Section struct {
	Name string
	Keys []string
}

// promptSections is the fixed key-to-section table, in output order.
var promptSections = []Section{
	{Name: "Content", Keys: []string{"subject", "style", "medium", "artists", "photographers", "details", "quality"}},
	{Name: "Character", Keys: []string{"gender", "bodyType", "clothing", "accessories", "expression", "pose", "angle", "hairStyle"}},
	{Name: "Style", Keys: []string{"lighting", "colors", "mood", "color_grading", "composition", "camera", "camera_type"}},
	{Name: "Setting", Keys: []string{"setting", "era", "place", "weather", "timeOfDay", "season"}},
}

const userPromptIntro = "Create a detailed image prompt with the following parameters, organized into paragraphs:\n\n"

// promptTemplate holds the provider-tunable parts of an assembled prompt.
type promptTemplate struct {
	System       string
	Instructions string
}

var standardTemplate = promptTemplate{
	System: "You are an expert image prompt engineer specializing in creating vivid, detailed descriptions. " +
		"Create a structured, cohesive prompt with distinct paragraphs for Content, Character, Style, and Setting elements. " +
		"For each section that has user parameters, create a flowing, detailed paragraph. " +
		"Be creative with any missing sections, inventing appropriate details that complement the specified elements. " +
		"IMPORTANT: DO NOT include section titles or headers like 'Content:', 'Style:', etc. in your response. " +
		"Maintain a consistent narrative across all paragraphs without using labels. " +
		"Craft text that works effectively as an AI image generation prompt.",
	Instructions: "INSTRUCTIONS:\n" +
		"1. Create a cohesive image prompt with separate paragraphs for Content, Character, Style, and Setting (in that order).\n" +
		"2. Each section should be a detailed paragraph WITHOUT SECTION TITLES OR HEADERS.\n" +
		"3. For sections with few or no specified parameters, be creative and invent appropriate details.\n" +
		"4. Make sure all paragraphs work together to describe a unified, consistent scene.\n" +
		"5. The prompt should be directly usable for AI image generation without requiring editing.\n" +
		"6. DO NOT use section labels, headers, or titles like 'Content:', 'Style:', etc. in your response.\n" +
		"7. DO NOT use bullet points or other formatting in your response.",
}

var conciseTemplate = promptTemplate{
	System: "You are an expert image prompt engineer. Create a detailed image generation prompt based on these parameters. " +
		"Your response should be 4 paragraphs: content, character, style, and setting. " +
		"DO NOT include section headers. DO NOT explain what you're doing. ONLY output the prompt text.",
	Instructions: standardTemplate.Instructions,
}

var strictTemplate = promptTemplate{
	System: "You are a creative AI assistant that creates detailed image prompts for AI image generation. " +
		"You must follow these rules strictly:\n" +
		"1. Create ONLY descriptive text suitable for image generation.\n" +
		"2. Organize content into 4 cohesive paragraphs: Content, Character, Style, and Setting.\n" +
		"3. DO NOT include any labels, headers, or formatting markers.\n" +
		"4. DO NOT include ANY meta-commentary or self-references about your process.\n" +
		"5. DO NOT include ANY special tokens or separators like |, <pad>, </s>, etc.\n" +
		"6. NEVER respond with anything other than the prompt text itself.",
	Instructions: "STRICT INSTRUCTIONS:\n" +
		"1. Write EXACTLY FOUR paragraphs - Content, Character, Style, and Setting.\n" +
		"2. DO NOT include ANY paragraph headers, labels, or formatting markers.\n" +
		"3. NEVER write anything like 'Here's a prompt' or explain what you're doing.\n" +
		"4. NEVER include special tokens like |, <pad>, </s>, etc.\n" +
		"5. Your entire response must contain ONLY the prompt text itself.\n" +
		"6. DO NOT include ANY self-evaluation or comments about meeting requirements.\n" +
		"7. DO NOT respond with anything that isn't part of the actual prompt.\n" +
		"8. Be creative but concise, focusing only on descriptive content.",
}

// assembledPrompt is the provider-agnostic instruction pair.
type assembledPrompt struct {
	System string
	User   string
}

// Combined joins system and user text for completion-style endpoints.
func (p assembledPrompt) Combined() string {
	return p.System + "\n\n" + p.User
}

// assemblePrompt renders cfg into instruction text. It is deterministic and
// side-effect free. Keys missing from the catalog are skipped.
func assemblePrompt(cfg domain.PromptConfig, catalog domain.Catalog, tmpl promptTemplate) assembledPrompt {
	var b strings.Builder
	b.WriteString(userPromptIntro)

	for _, sec := range promptSections {
		b.WriteString(renderSection(sec, cfg, catalog))
	}

	if details := strings.TrimSpace(cfg.ExtraDetails); details != "" {
		fmt.Fprintf(&b, "Additional Details: %s\n\n", details)
	}
	b.WriteString(tmpl.Instructions)

	return assembledPrompt{System: tmpl.System, User: b.String()}
}

func renderSection(sec Section, cfg domain.PromptConfig, catalog domain.Catalog) string {
	var lines []string
	for _, key := range sec.Keys {
		values := cfg.Values(key)
		if len(values) == 0 {
			continue
		}
		name := catalog.DisplayName(key)
		if name == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s\n", name, strings.Join(values, ", ")))
	}
	if len(lines) == 0 {
		return ""
	}
	return sec.Name + ":\n" + strings.Join(lines, "") + "\n"
}

// SectionFor reports which section a configuration key belongs to.
func SectionFor(key string) (string, bool) {
	for _, sec := range promptSections {
		for _, k := range sec.Keys {
			if k == key {
				return sec.Name, true
			}
		}
	}
	return "", false
}

// Sections returns a copy of the ordered section table.
func Sections() []Section {
	out := make([]Section, 0, len(promptSections))
	for _, sec := range promptSections {
		out = append(out, Section{Name: sec.Name, Keys: append([]string(nil), sec.Keys...)})
	}
	return out
}
