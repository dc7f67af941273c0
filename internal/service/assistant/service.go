package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/flow/agent/react"
	"github.com/cloudwego/eino/schema"

	"github.com/sitewright/backend/internal/model/chat"
	"github.com/sitewright/backend/internal/model/upload"
	"github.com/sitewright/backend/internal/service/conversation"
	"github.com/sitewright/backend/internal/service/ingest"
)

// systemDirective frames the assistant's role and tone.
const systemDirective = `You are the SiteWright AI Assistant. You are an expert in:

- AI-powered website generation and modification
- Custom AI assistants for enterprise solutions
- Enterprise AI integration and automation
- Document analysis from PDFs and images using OCR

Use the search_documents tool whenever a question may be answered by the
indexed knowledge base. Answer concisely in markdown. Maintain the
professional, technology-focused tone of the SiteWright brand (black and
gold, premium positioning).`

// SearchEngine answers free-text sub-queries from the document corpus.
type SearchEngine interface {
	Query(ctx context.Context, query string) (string, error)
}

// Service runs one isolated tool-calling exchange per inbound request. No
// agent state survives a request; only the conversation store persists.
type Service struct {
	chatModel model.ToolCallingChatModel
	engine    SearchEngine
	pipeline  *ingest.Pipeline
	store     *conversation.Store
	maxSteps  int
	timeout   time.Duration
}

// NewService wires the assistant. engine may be nil when no index is
// configured; the search tool then reports the corpus as unavailable.
func NewService(chatModel model.ToolCallingChatModel, engine SearchEngine, pipeline *ingest.Pipeline, store *conversation.Store, maxSteps int, timeout time.Duration) *Service {
	if maxSteps <= 0 {
		maxSteps = 10
	}
	return &Service{
		chatModel: chatModel,
		engine:    engine,
		pipeline:  pipeline,
		store:     store,
		maxSteps:  maxSteps,
		timeout:   timeout,
	}
}

// History returns the session's rendered-facing conversation window.
func (s *Service) History(sessionID string) []chat.Turn {
	return s.store.Turns(sessionID)
}

// Chat ingests any uploaded files, merges their text into the query, runs
// a fresh agent, and persists the exchange. An agent failure is persisted
// as a visible error turn and also returned so callers can log it.
func (s *Service) Chat(ctx context.Context, sessionID, query string, files []upload.File) (string, error) {
	extractions := s.pipeline.Process(files)
	fullQuery := MergeQuery(query, extractions)
	displayQuery := DisplayQuery(query, files)

	answer, err := s.runAgent(ctx, fullQuery)
	if err != nil {
		log.Printf("[assistant] agent run failed for session=%s: %v", sessionID, err)
		answer = fmt.Sprintf("Sorry, the assistant could not answer this question: %v", err)
	}

	s.store.Append(sessionID, chat.Turn{UserPrompt: displayQuery, AIResponse: answer})
	return answer, err
}

// runAgent constructs a request-scoped ReAct agent and executes a single
// tool-use pass. The agent and its tools are discarded afterwards; reusing
// them across requests would leak one user's exchange into another's.
func (s *Service) runAgent(ctx context.Context, fullQuery string) (string, error) {
	tools, err := s.buildTools()
	if err != nil {
		return "", err
	}

	agent, err := react.NewAgent(ctx, &react.AgentConfig{
		ToolCallingModel: s.chatModel,
		ToolsConfig:      compose.ToolsNodeConfig{Tools: tools},
		MessageModifier: func(_ context.Context, input []*schema.Message) []*schema.Message {
			messages := make([]*schema.Message, 0, len(input)+1)
			messages = append(messages, schema.SystemMessage(systemDirective))
			return append(messages, input...)
		},
		MaxStep: s.maxSteps,
	})
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	response, err := agent.Generate(callCtx, []*schema.Message{schema.UserMessage(fullQuery)})
	if err != nil {
		return "", fmt.Errorf("run agent: %w", err)
	}
	return response.Content, nil
}

// MergeQuery concatenates the user's question with every ingested file
// fragment. Extraction failures stay merged as text so the answer can
// acknowledge them; the typed errors travel on the extractions.
func MergeQuery(query string, extractions []upload.Extraction) string {
	if len(extractions) == 0 {
		return query
	}

	fragments := make([]string, 0, len(extractions))
	for _, extraction := range extractions {
		fragments = append(fragments, extraction.Text)
	}
	return query + "\n\nUploaded file contents:\n" + strings.Join(fragments, "\n\n")
}

// DisplayQuery is what history shows for the user's side of the turn: the
// original question plus an attachment note when files were uploaded.
func DisplayQuery(query string, files []upload.File) string {
	if len(files) == 0 {
		return query
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		if file.Filename != "" {
			names = append(names, file.Filename)
		}
	}
	if len(names) == 0 {
		return query
	}
	return fmt.Sprintf("%s [📎 %d file(s): %s]", query, len(names), strings.Join(names, ", "))
}
