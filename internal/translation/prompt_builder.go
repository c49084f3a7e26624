package translation

import (
	"fmt"
	"strings"
)

// PromptBuilder constructs system and user prompts for key naming.
type PromptBuilder struct {
	local *Local
}

// NewPromptBuilder creates a prompt builder. Terms known to local are
// offered to the model as a glossary so API and local names agree.
func NewPromptBuilder(local *Local) *PromptBuilder {
	return &PromptBuilder{local: local}
}

const systemPrompt = `You name localization keys for a Unity game written in C#.

Rules:
1. Translate the Simplified Chinese text into an English C# constant name.
2. Use UPPER_SNAKE_CASE: capital letters, digits and underscores only.
3. Keep it short: at most six words, no articles.
4. Placeholders such as {0} stand for runtime values; leave them out of the name.
5. Output ONLY the name, nothing else.

Example: 抽卡道具不足 -> DRAW_CARD_ITEM_INSUFFICIENT`

// GetSystemPrompt returns the system prompt for key naming.
func (pb *PromptBuilder) GetSystemPrompt() string {
	return systemPrompt
}

// BuildUserPrompt constructs the user prompt for one text.
func (pb *PromptBuilder) BuildUserPrompt(text, folder string) string {
	var sb strings.Builder

	if pb.local != nil {
		if terms := pb.local.Terms(text); len(terms) > 0 {
			sb.WriteString("=== Terminology Reference ===\n")
			for _, t := range terms {
				sb.WriteString(fmt.Sprintf("• %s → %s\n", t.Chinese, t.English))
			}
			sb.WriteString("\n")
		}
	}

	if folder != "" {
		sb.WriteString(fmt.Sprintf("Module: %s\n", folder))
	}
	sb.WriteString(fmt.Sprintf("Chinese: %s", text))

	return sb.String()
}
