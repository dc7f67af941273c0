package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"github.com/sitewright/backend/internal/config"
	"github.com/sitewright/backend/internal/model/chat"
	"github.com/sitewright/backend/internal/service/conversation"
	"github.com/sitewright/backend/internal/service/intent"
)

// Generator turns prompts into complete HTML documents, replaying session
// history through a compiled eino chain and persisting each finished turn.
type Generator struct {
	chatModel model.ToolCallingChatModel
	composer  *Composer
	store     *conversation.Store
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// Result carries a finished generation plus the metadata surfaced to the
// caller.
type Result struct {
	HTML               string
	RequestID          string
	GeneratedAt        time.Time
	Model              string
	Intent             intent.Intent
	ConversationLength int
}

// NewGenerator compiles the generation chain once and binds it to the
// conversation store.
func NewGenerator(ctx context.Context, chatModel model.ToolCallingChatModel, composer *Composer, store *conversation.Store, cfg config.AIConfig) (*Generator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	return &Generator{
		chatModel: chatModel,
		composer:  composer,
		store:     store,
		cfg:       cfg,
		chain:     runnable,
	}, nil
}

// StreamingEnabled reports whether SSE streaming output is configured.
func (g *Generator) StreamingEnabled() bool {
	return g.cfg.StreamResponse
}

// Generate runs one blocking generation for the session. The whole
// read-history/invoke/append sequence executes under the session's lock,
// so concurrent requests for the same session serialize while other
// sessions proceed unhindered.
func (g *Generator) Generate(ctx context.Context, sessionID, userPrompt string) (*Result, error) {
	var result *Result

	length, err := g.store.Do(sessionID, func(turns []chat.Turn) (*chat.Turn, error) {
		input := g.composer.Compose(sessionID, userPrompt, turns)

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		response, err := g.chain.Invoke(callCtx, chainInputMap(input))
		if err != nil {
			return nil, fmt.Errorf("failed to run generation chain: %w", err)
		}

		html := NormalizeHTML(response.Content)
		result = &Result{
			HTML:        html,
			RequestID:   uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Model:       g.cfg.Model,
			Intent:      input.Intent,
		}
		return &chat.Turn{UserPrompt: userPrompt, AIResponse: html}, nil
	})
	if err != nil {
		return nil, err
	}

	result.ConversationLength = length
	log.Printf("[ai] generated website for session=%s intent=%s history=%d", sessionID, result.Intent, length)
	return result, nil
}

// GenerateStream streams raw completion chunks through onChunk while
// accumulating the full document, then persists the normalized result the
// same way Generate does. The session lock is held for the duration of the
// stream.
func (g *Generator) GenerateStream(ctx context.Context, sessionID, userPrompt string, onChunk func(content string)) (*Result, error) {
	var result *Result

	length, err := g.store.Do(sessionID, func(turns []chat.Turn) (*chat.Turn, error) {
		input := g.composer.Compose(sessionID, userPrompt, turns)

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()

		stream, err := g.chain.Stream(callCtx, chainInputMap(input))
		if err != nil {
			return nil, fmt.Errorf("failed to stream generation chain: %w", err)
		}
		defer stream.Close()

		var raw string
		for {
			msg, recvErr := stream.Recv()
			if recvErr != nil {
				if errors.Is(recvErr, io.EOF) {
					break
				}
				return nil, fmt.Errorf("generation stream failed: %w", recvErr)
			}
			if msg.Content == "" {
				continue
			}
			raw += msg.Content
			onChunk(msg.Content)
		}

		html := NormalizeHTML(raw)
		result = &Result{
			HTML:        html,
			RequestID:   uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			Model:       g.cfg.Model,
			Intent:      input.Intent,
		}
		return &chat.Turn{UserPrompt: userPrompt, AIResponse: html}, nil
	})
	if err != nil {
		return nil, err
	}

	result.ConversationLength = length
	log.Printf("[ai] streamed website for session=%s intent=%s history=%d", sessionID, result.Intent, length)
	return result, nil
}

func chainInputMap(input ChainInput) map[string]any {
	return map[string]any{
		"system":  input.System,
		"history": input.History,
		"query":   input.Query,
	}
}
