// Package validate reduces an unconstrained model reply into either a single
// trustworthy shell command or a rejection with a diagnosable reason.
//
// The pass is pure and deterministic: identical input always yields identical
// output, so it is unit-testable without network access.
package validate

import (
	"strings"
	"unicode"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

// MaxCommandLength bounds an accepted command. Longer text is almost always a
// pasted explanation rather than a command.
const MaxCommandLength = 512

// Explanatory prefixes models commonly prepend despite instructions.
var strippedPrefixes = []string{
	"command:",
	"command is:",
	"the command is:",
	"the command:",
	"cli command:",
	"terminal command:",
	"here is the command:",
	"here's the command:",
	"use this command:",
	"you can use:",
	"run this:",
	"use:",
	"try:",
	"run:",
	"execute:",
	"$ ",
	"# ",
	"> ",
}

// Result is the validator's terminal verdict.
type Result struct {
	Accepted bool
	Command  string
	Reason   domain.RejectionReason
}

// Validate applies the sanitation policy in order: strip fences, backticks,
// and prompt markers; reject multi-line replies; reject empty replies; reject
// disallowed characters; reject over-length replies.
func Validate(raw string) Result {
	text := strings.TrimSpace(raw)
	text = stripCodeFence(text)
	text = strings.Trim(text, "`")
	text = strings.TrimSpace(text)
	text = stripPrefixes(text)

	lines := nonEmptyLines(text)
	if len(lines) > 1 {
		return rejected(domain.RejectMultiLineResponse)
	}
	if len(lines) == 0 {
		return rejected(domain.RejectEmptyResponse)
	}

	command := strings.TrimSpace(lines[0])
	if command == "" {
		return rejected(domain.RejectEmptyResponse)
	}
	if !allowedCharacters(command) {
		return rejected(domain.RejectDisallowedCharacters)
	}
	if len(command) > MaxCommandLength {
		return rejected(domain.RejectTooLong)
	}

	return Result{Accepted: true, Command: command}
}

func rejected(reason domain.RejectionReason) Result {
	return Result{Reason: reason}
}

// stripCodeFence removes a surrounding markdown fence, including an optional
// language marker on the opening line.
func stripCodeFence(text string) string {
	if !strings.Contains(text, "```") {
		return text
	}
	start := strings.Index(text, "```")
	rest := text[start+3:]
	end := strings.Index(rest, "```")
	if end == -1 {
		return strings.ReplaceAll(text, "```", "")
	}
	block := rest[:end]
	if nl := strings.Index(block, "\n"); nl >= 0 {
		marker := strings.TrimSpace(block[:nl])
		if isLanguageMarker(marker) {
			block = block[nl+1:]
		}
	}
	return strings.TrimSpace(block)
}

func isLanguageMarker(marker string) bool {
	switch strings.ToLower(marker) {
	case "", "sh", "bash", "shell", "zsh", "console", "terminal", "cmd", "powershell":
		return true
	}
	return false
}

func stripPrefixes(text string) string {
	for changed := true; changed; {
		changed = false
		trimmed := strings.TrimSpace(text)
		lower := strings.ToLower(trimmed)
		for _, prefix := range strippedPrefixes {
			if strings.HasPrefix(lower, prefix) {
				text = strings.TrimSpace(trimmed[len(prefix):])
				changed = true
				break
			}
		}
	}
	return text
}

func nonEmptyLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// allowedCharacters enforces a conservative allow-list: printable ASCII plus
// Unicode letters and digits (covers non-ASCII path segments). Control
// characters, emoji, and other symbols signal prose or prompt injection.
func allowedCharacters(command string) bool {
	for _, r := range command {
		if r >= 0x20 && r <= 0x7E {
			continue
		}
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}
