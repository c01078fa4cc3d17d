package validate

import (
	"strings"
	"testing"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

func TestValidateAccepts(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain command", "ls -la", "ls -la"},
		{"surrounding whitespace", "  df -h  \n", "df -h"},
		{"code fence", "```\nls -la\n```", "ls -la"},
		{"fence with language", "```bash\ngit log --oneline -5\n```", "git log --oneline -5"},
		{"inline backticks", "`uname -a`", "uname -a"},
		{"shell prompt marker", "$ du -sh *", "du -sh *"},
		{"command prefix", "Command: find . -name '*.log'", "find . -name '*.log'"},
		{"stacked prefixes", "The command is: $ ls", "ls"},
		{"unicode path", "ls /tmp/résumé", "ls /tmp/résumé"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.raw)
			if !res.Accepted {
				t.Fatalf("Validate(%q) rejected with %q", tc.raw, res.Reason)
			}
			if res.Command != tc.want {
				t.Errorf("Validate(%q).Command = %q, want %q", tc.raw, res.Command, tc.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		raw    string
		reason domain.RejectionReason
	}{
		{"empty", "", domain.RejectEmptyResponse},
		{"whitespace only", "   \n\t  ", domain.RejectEmptyResponse},
		{"fence only", "``````", domain.RejectEmptyResponse},
		{
			"explanatory prose",
			"You should run: rm -rf /\nThis deletes everything.",
			domain.RejectMultiLineResponse,
		},
		{
			"multi line script",
			"cd /tmp\nls",
			domain.RejectMultiLineResponse,
		},
		{"control characters", "ls\x07 -la", domain.RejectDisallowedCharacters},
		{"emoji", "ls 🚀", domain.RejectDisallowedCharacters},
		{"too long", "echo " + strings.Repeat("a", MaxCommandLength), domain.RejectTooLong},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.raw)
			if res.Accepted {
				t.Fatalf("Validate(%q) accepted %q, want rejection %q", tc.raw, res.Command, tc.reason)
			}
			if res.Reason != tc.reason {
				t.Errorf("Validate(%q).Reason = %q, want %q", tc.raw, res.Reason, tc.reason)
			}
		})
	}
}

func TestValidateDeterministic(t *testing.T) {
	raw := "```sh\nkubectl get pods -A\n```"
	first := Validate(raw)
	for i := 0; i < 10; i++ {
		if got := Validate(raw); got != first {
			t.Fatalf("Validate not deterministic: %+v vs %+v", got, first)
		}
	}
}
