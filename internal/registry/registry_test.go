package registry

import (
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/chatcmd-go/internal/domain"
)

func TestResolveCanonicalAndAliases(t *testing.T) {
	reg := New()

	cases := []struct {
		input  string
		want   string
		family domain.ProviderFamily
	}{
		{"gpt-3.5-turbo", "gpt-3.5-turbo", domain.FamilyOpenAI},
		{"GPT-4", "gpt-4", domain.FamilyOpenAI},
		{"gpt4", "gpt-4", domain.FamilyOpenAI},
		{"claude-haiku", "claude-3-haiku", domain.FamilyAnthropic},
		{"gemini", "gemini-pro", domain.FamilyGoogle},
		{"llama-3.2-3b", "llama3.2:3b", domain.FamilyOllama},
		{"command-light", "command-light", domain.FamilyCohere},
	}

	for _, tc := range cases {
		desc, err := reg.Resolve(tc.input)
		if err != nil {
			t.Fatalf("Resolve(%q) error = %v", tc.input, err)
		}
		if desc.ModelID != tc.want {
			t.Errorf("Resolve(%q).ModelID = %q, want %q", tc.input, desc.ModelID, tc.want)
		}
		if desc.Family != tc.family {
			t.Errorf("Resolve(%q).Family = %q, want %q", tc.input, desc.Family, tc.family)
		}
	}
}

func TestResolveEmptyUsesDefault(t *testing.T) {
	desc, err := New().Resolve("")
	if err != nil {
		t.Fatalf("Resolve(\"\") error = %v", err)
	}
	if desc.ModelID != DefaultModelID {
		t.Fatalf("Resolve(\"\").ModelID = %q, want %q", desc.ModelID, DefaultModelID)
	}
}

func TestResolveUnknownModel(t *testing.T) {
	_, err := New().Resolve("definitely-not-a-model-xyz")
	if !errors.Is(err, domain.ErrUnknownModel) {
		t.Fatalf("Resolve() error = %v, want ErrUnknownModel", err)
	}
}

func TestResolveSuggestsCloseMatch(t *testing.T) {
	_, err := New().Resolve("gpt-3.5-trubo")
	if !errors.Is(err, domain.ErrUnknownModel) {
		t.Fatalf("Resolve() error = %v, want ErrUnknownModel", err)
	}
	if got := err.Error(); !strings.Contains(got, "gpt-3.5-turbo") {
		t.Errorf("error %q does not suggest gpt-3.5-turbo", got)
	}
}

func TestListOrderedByFamilyThenModel(t *testing.T) {
	models := New().List()
	if len(models) == 0 {
		t.Fatal("List() returned no models")
	}
	for i := 1; i < len(models); i++ {
		prev, curr := models[i-1], models[i]
		if prev.Family > curr.Family {
			t.Fatalf("List() not ordered by family: %q before %q", prev.Family, curr.Family)
		}
		if prev.Family == curr.Family && prev.ModelID > curr.ModelID {
			t.Fatalf("List() not ordered by model id within %q: %q before %q", prev.Family, prev.ModelID, curr.ModelID)
		}
	}
}
