package index

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
)

// keywordEmbedder maps texts onto a tiny deterministic vector space so
// similarity rankings are predictable without a real model.
type keywordEmbedder struct {
	calls int
}

func (e *keywordEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	e.calls++
	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		lower := strings.ToLower(text)
		vec := []float64{0, 0, 1}
		if strings.Contains(lower, "refund") {
			vec[0] = 1
		}
		if strings.Contains(lower, "shipping") {
			vec[1] = 1
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

func writeCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"policies.txt": "Our refund policy allows returns within 30 days.\n\nShipping is free over $50.",
		"about.md":     "The company was founded in 2019.",
		"ignored.bin":  "binary payload that must not be indexed",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestBuildIndexesOnlyTextFiles(t *testing.T) {
	ix, err := Build(context.Background(), writeCorpus(t), 1200, &keywordEmbedder{})
	if err != nil {
		t.Fatalf("Build err: %v", err)
	}

	if ix.Size() == 0 {
		t.Fatal("expected chunks from .txt and .md files")
	}
	for _, doc := range ix.docs {
		if strings.HasSuffix(doc.Source, ".bin") {
			t.Fatalf("unexpected indexed source %s", doc.Source)
		}
		if doc.ID == "" || len(doc.Embedding) == 0 {
			t.Fatalf("expected id and embedding on every chunk: %+v", doc)
		}
	}
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	ix, err := Build(context.Background(), writeCorpus(t), 1200, &keywordEmbedder{})
	if err != nil {
		t.Fatalf("Build err: %v", err)
	}

	results, err := ix.Search(context.Background(), "what is the refund policy", 1)
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected topK=1 result, got %d", len(results))
	}
	if !strings.Contains(results[0].Text, "refund") {
		t.Fatalf("expected the refund chunk first, got %q", results[0].Text)
	}
}

func TestSearchEmptyIndex(t *testing.T) {
	ix := New(&keywordEmbedder{}, nil)
	results, err := ix.Search(context.Background(), "anything", 4)
	if err != nil || results != nil {
		t.Fatalf("expected nil, nil for an empty index, got %v, %v", results, err)
	}
}

func TestOpenPersistsAndReloads(t *testing.T) {
	dataDir := writeCorpus(t)
	storageDir := filepath.Join(t.TempDir(), "storage")
	embedder := &keywordEmbedder{}

	built, err := Open(context.Background(), dataDir, storageDir, 1200, embedder)
	if err != nil {
		t.Fatalf("Open (build) err: %v", err)
	}
	if !Persisted(storageDir) {
		t.Fatal("expected index persisted after first open")
	}

	buildCalls := embedder.calls
	loaded, err := Open(context.Background(), dataDir, storageDir, 1200, embedder)
	if err != nil {
		t.Fatalf("Open (load) err: %v", err)
	}
	if embedder.calls != buildCalls {
		t.Fatal("expected the second open to load without embedding")
	}
	if loaded.Size() != built.Size() {
		t.Fatalf("expected %d chunks after reload, got %d", built.Size(), loaded.Size())
	}
}

func TestChunkTextPacksParagraphs(t *testing.T) {
	text := "first paragraph\n\nsecond paragraph\n\nthird paragraph"

	chunks := chunkText(text, 1000)
	if len(chunks) != 1 {
		t.Fatalf("expected small paragraphs packed into one chunk, got %d", len(chunks))
	}
	if chunks[0] != "first paragraph\nsecond paragraph\nthird paragraph" {
		t.Fatalf("unexpected packed chunk %q", chunks[0])
	}

	chunks = chunkText(text, 20)
	if len(chunks) != 3 {
		t.Fatalf("expected one chunk per paragraph at maxLen=20, got %d", len(chunks))
	}

	if got := chunkText("\n\n   \n", 100); got != nil {
		t.Fatalf("expected no chunks for blank input, got %v", got)
	}
}
