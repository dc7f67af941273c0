package intent_test

import (
	"testing"

	"github.com/sitewright/backend/internal/service/intent"
)

func TestClassifyWithoutHistoryIsAlwaysNew(t *testing.T) {
	c := intent.KeywordClassifier{}

	prompts := []string{
		"Create a simple landing page for a coffee shop",
		"change the hero color to red",
		"fix everything",
	}
	for _, prompt := range prompts {
		if got := c.Classify(prompt, false); got != intent.New {
			t.Fatalf("prompt %q without history: expected new, got %s", prompt, got)
		}
	}
}

func TestClassifyWithHistory(t *testing.T) {
	c := intent.KeywordClassifier{}

	cases := []struct {
		prompt string
		want   intent.Intent
	}{
		{"change the hero color to red", intent.Modification},
		{"please MODIFY the footer", intent.Modification},
		{"Update the pricing table", intent.Modification},
		{"remove the newsletter section", intent.Modification},
		{"make it darker", intent.Modification},
		{"Create a portfolio site for a photographer", intent.New},
		{"I want a bakery website now", intent.New},
		// Known false positive: a new-topic request that happens to
		// contain a trigger word is still classified as a modification.
		{"add a contact form to a brand-new site", intent.Modification},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.prompt, true); got != tc.want {
			t.Fatalf("prompt %q: expected %s, got %s", tc.prompt, tc.want, got)
		}
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := intent.KeywordClassifier{}

	for i := 0; i < 5; i++ {
		if got := c.Classify("change the background", true); got != intent.Modification {
			t.Fatalf("run %d: expected modification, got %s", i, got)
		}
	}
}
