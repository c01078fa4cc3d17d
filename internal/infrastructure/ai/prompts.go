package ai

import (
	"fmt"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

// systemPrompt is shared by every family that supports a system role.
const systemPrompt = "You are a CLI command expert. Generate only the command needed to accomplish the task. Return only the command, no explanations, no markdown, no code blocks."

// userPrompt phrases the request per family. The wording is tuned per
// provider: terse instruction-style phrasing works better on some models.
func userPrompt(family domain.ProviderFamily, prompt string) string {
	switch family {
	case domain.FamilyOpenAI:
		return fmt.Sprintf("Show me the CLI command for: %s. Return only the command.", prompt)
	case domain.FamilyAnthropic:
		return fmt.Sprintf("What CLI command would I use to: %s? Provide only the command.", prompt)
	case domain.FamilyGoogle:
		return fmt.Sprintf("CLI command for: %s. Command only.", prompt)
	case domain.FamilyCohere:
		return fmt.Sprintf("Generate a command line command for: %s. Return just the command.", prompt)
	case domain.FamilyOllama:
		return fmt.Sprintf("Generate a single CLI command for: %s. Return only the command, no explanations.", prompt)
	default:
		return fmt.Sprintf("Generate a single CLI command for: %s. Return only the command, no explanations.", prompt)
	}
}
