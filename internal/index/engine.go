package index

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const synthesisDirective = `You answer questions using only the provided context passages. ` +
	`Cite the source filename when it helps. If the context does not contain ` +
	`the answer, say so instead of guessing.`

// Engine answers free-text sub-queries by retrieving the most relevant
// chunks and asking the chat model to synthesize an answer from them.
type Engine struct {
	index *Index
	model model.BaseChatModel
	topK  int
}

// NewEngine binds an index to a synthesis model.
func NewEngine(ix *Index, chatModel model.BaseChatModel, topK int) *Engine {
	if topK <= 0 {
		topK = 4
	}
	return &Engine{index: ix, model: chatModel, topK: topK}
}

// Query retrieves context for the sub-query and returns a synthesized
// textual answer.
func (e *Engine) Query(ctx context.Context, query string) (string, error) {
	docs, err := e.index.Search(ctx, query, e.topK)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "No indexed documents are available for this question.", nil
	}

	var contextBlock strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&contextBlock, "[%s]\n%s\n\n", doc.Source, doc.Text)
	}

	messages := []*schema.Message{
		schema.SystemMessage(synthesisDirective),
		schema.UserMessage(fmt.Sprintf("Context:\n%s\nQuestion: %s", contextBlock.String(), query)),
	}

	response, err := e.model.Generate(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}
	return response.Content, nil
}
