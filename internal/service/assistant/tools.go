package assistant

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

type multiplyInput struct {
	A float64 `json:"a" jsonschema:"description=first factor"`
	B float64 `json:"b" jsonschema:"description=second factor"`
}

func multiply(_ context.Context, in *multiplyInput) (float64, error) {
	return in.A * in.B, nil
}

type searchInput struct {
	Query string `json:"query" jsonschema:"description=free-text question to search the document corpus for"`
}

// buildTools constructs a fresh tool set for one request: the arithmetic
// multiply utility and the document-search tool backed by the retrieval
// index.
func (s *Service) buildTools() ([]tool.BaseTool, error) {
	multiplyTool, err := utils.InferTool("multiply", "multiplies two numbers and returns the product", multiply)
	if err != nil {
		return nil, fmt.Errorf("infer multiply tool: %w", err)
	}

	searchTool, err := utils.InferTool(
		"search_documents",
		"searches the indexed document corpus and returns an answer synthesized from it",
		func(ctx context.Context, in *searchInput) (string, error) {
			if s.engine == nil {
				return "The document index is not available.", nil
			}
			return s.engine.Query(ctx, in.Query)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("infer search tool: %w", err)
	}

	return []tool.BaseTool{multiplyTool, searchTool}, nil
}
