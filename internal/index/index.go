package index

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/cloudwego/eino/components/embedding"
)

// storageFile is the persisted index inside the storage directory.
const storageFile = "index.json"

// Document is one embedded chunk of a source file.
type Document struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding"`
}

// Index is an in-process vector store over a document corpus. It is built
// once at startup and queried read-only afterwards, so searches need no
// locking.
type Index struct {
	embedder embedding.Embedder
	docs     []Document
}

// New wraps an embedder around an existing document set.
func New(embedder embedding.Embedder, docs []Document) *Index {
	return &Index{embedder: embedder, docs: docs}
}

// Size reports how many chunks the index holds.
func (ix *Index) Size() int { return len(ix.docs) }

// Search embeds the query and returns the topK most similar documents by
// cosine similarity, best first.
func (ix *Index) Search(ctx context.Context, query string, topK int) ([]Document, error) {
	if len(ix.docs) == 0 {
		return nil, nil
	}

	vectors, err := ix.embedder.EmbedStrings(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(vectors))
	}
	queryVec := vectors[0]

	type scored struct {
		doc   Document
		score float64
	}
	ranked := make([]scored, 0, len(ix.docs))
	for _, doc := range ix.docs {
		ranked = append(ranked, scored{doc: doc, score: cosine(queryVec, doc.Embedding)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if topK <= 0 || topK > len(ranked) {
		topK = len(ranked)
	}
	results := make([]Document, 0, topK)
	for _, entry := range ranked[:topK] {
		results = append(results, entry.doc)
	}
	return results, nil
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Persist writes the document set to the storage directory so later
// processes can skip the build.
func (ix *Index) Persist(storageDir string) error {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	data, err := json.Marshal(ix.docs)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err := os.WriteFile(filepath.Join(storageDir, storageFile), data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Load reads a previously persisted index from the storage directory.
func Load(storageDir string, embedder embedding.Embedder) (*Index, error) {
	data, err := os.ReadFile(filepath.Join(storageDir, storageFile))
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("unmarshal index: %w", err)
	}
	return New(embedder, docs), nil
}

// Persisted reports whether a stored index exists under storageDir.
func Persisted(storageDir string) bool {
	info, err := os.Stat(filepath.Join(storageDir, storageFile))
	return err == nil && !info.IsDir()
}
