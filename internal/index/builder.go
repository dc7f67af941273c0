package index

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/google/uuid"
)

// embedBatchSize bounds how many chunks go to the embedder per call.
const embedBatchSize = 16

var indexableExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Open loads the persisted index when one exists, otherwise builds it from
// the data directory and persists the result for reuse across restarts.
func Open(ctx context.Context, dataDir, storageDir string, chunkSize int, embedder embedding.Embedder) (*Index, error) {
	if Persisted(storageDir) {
		ix, err := Load(storageDir, embedder)
		if err != nil {
			return nil, err
		}
		log.Printf("[index] loaded %d chunks from %s", ix.Size(), storageDir)
		return ix, nil
	}

	ix, err := Build(ctx, dataDir, chunkSize, embedder)
	if err != nil {
		return nil, err
	}
	if err := ix.Persist(storageDir); err != nil {
		return nil, err
	}
	log.Printf("[index] built %d chunks from %s", ix.Size(), dataDir)
	return ix, nil
}

// Build walks the data directory, chunks every indexable file, and embeds
// the chunks.
func Build(ctx context.Context, dataDir string, chunkSize int, embedder embedding.Embedder) (*Index, error) {
	var docs []Document

	err := filepath.WalkDir(dataDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !indexableExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		source, relErr := filepath.Rel(dataDir, path)
		if relErr != nil {
			source = path
		}
		for _, chunk := range chunkText(string(content), chunkSize) {
			docs = append(docs, Document{ID: uuid.NewString(), Source: source, Text: chunk})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dataDir, err)
	}

	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}

		texts := make([]string, 0, end-start)
		for _, doc := range docs[start:end] {
			texts = append(texts, doc.Text)
		}

		vectors, err := embedder.EmbedStrings(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embed chunks: expected %d vectors, got %d", len(texts), len(vectors))
		}
		for i := range vectors {
			docs[start+i].Embedding = vectors[i]
		}
	}

	return New(embedder, docs), nil
}

// chunkText splits text into paragraphs and packs them into chunks of at
// most maxLen characters.
func chunkText(text string, maxLen int) []string {
	paragraphs := strings.Split(text, "\n")
	var chunks []string
	var buf strings.Builder
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if buf.Len()+len(p)+1 > maxLen && buf.Len() > 0 {
			chunks = append(chunks, buf.String())
			buf.Reset()
		}
		if buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(p)
	}
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
	}
	return chunks
}
