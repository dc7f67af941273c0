package chat

import "time"

// WindowSize bounds how many turns a session retains. Older turns are
// evicted first so replayed context stays within the model's budget.
const WindowSize = 10

// Turn records one completed exchange: the user's prompt and the
// response generated for it. Turns are append-only and never mutated.
type Turn struct {
	UserPrompt string    `json:"user_prompt"`
	AIResponse string    `json:"ai_response"`
	CreatedAt  time.Time `json:"created_at"`
}
