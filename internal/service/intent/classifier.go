package intent

import "strings"

// Intent is the framing decision for an incoming prompt.
type Intent string

const (
	// New asks the backend to produce a document from scratch.
	New Intent = "new"
	// Modification asks the backend to edit the previous document.
	Modification Intent = "modification"
)

// Classifier decides how a prompt should be framed given whether the
// session already has history. Implementations must be pure so the policy
// can be swapped without touching the composer.
type Classifier interface {
	Classify(prompt string, hasHistory bool) Intent
}

// modificationKeywords is the fixed trigger set. A prompt containing any
// of these while history exists is treated as an edit of the prior
// output, even when it actually opens a new topic; that false positive is
// accepted policy for now.
var modificationKeywords = []string{
	"change", "modify", "update", "add", "remove", "make", "color", "style", "fix",
}

// KeywordClassifier matches lower-cased prompts against a fixed keyword
// set. The zero value is ready to use.
type KeywordClassifier struct{}

// Classify returns New for the first prompt of a session, and
// Modification when any trigger keyword appears in a follow-up prompt.
func (KeywordClassifier) Classify(prompt string, hasHistory bool) Intent {
	if !hasHistory {
		return New
	}

	lowered := strings.ToLower(prompt)
	for _, keyword := range modificationKeywords {
		if strings.Contains(lowered, keyword) {
			return Modification
		}
	}
	return New
}
