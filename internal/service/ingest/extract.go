package ingest

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/sitewright/backend/internal/model/upload"
)

// unsupportedMessage is returned as if it were extracted text, so the
// model can acknowledge the skipped file in its answer.
const unsupportedMessage = "Unsupported file type. Please upload PDF or image files."

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
}

// Pipeline converts uploaded files into text, dispatching by filename
// extension. The 10 MiB ceiling is the caller's responsibility; files
// handed to Extract are assumed to be within bounds.
type Pipeline struct {
	maxFileBytes int64
}

// NewPipeline builds a pipeline with the given per-file byte ceiling.
func NewPipeline(maxFileBytes int64) *Pipeline {
	if maxFileBytes <= 0 {
		maxFileBytes = upload.MaxFileBytes
	}
	return &Pipeline{maxFileBytes: maxFileBytes}
}

// MaxFileBytes exposes the configured ceiling for boundary checks.
func (p *Pipeline) MaxFileBytes() int64 { return p.maxFileBytes }

// Extract returns the text pulled from one file. On failure the returned
// string still carries a human-readable notice suitable for merging into
// the query, and the error is a typed *Error describing the same failure.
func (p *Pipeline) Extract(file upload.File) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))

	switch {
	case ext == ".pdf":
		text, err := extractPDF(file.Content)
		if err != nil {
			return fmt.Sprintf("Error processing PDF: %v", err), newError(KindPDF, file.Filename, err)
		}
		return text, nil
	case imageExtensions[ext]:
		text, err := extractImage(file.Content)
		if err != nil {
			return fmt.Sprintf("Error processing image: %v", err), newError(KindOCR, file.Filename, err)
		}
		return text, nil
	default:
		return unsupportedMessage, newError(KindUnsupported, file.Filename, nil)
	}
}

// Process runs every file through the pipeline independently. Oversized
// files are rejected at this boundary with a descriptive notice and never
// reach extraction. Each result's Text is the fragment merged into the
// outgoing query.
func (p *Pipeline) Process(files []upload.File) []upload.Extraction {
	if len(files) == 0 {
		return nil
	}

	results := make([]upload.Extraction, 0, len(files))
	for _, file := range files {
		if file.Size > p.maxFileBytes {
			results = append(results, upload.Extraction{
				Filename: file.Filename,
				Text:     fmt.Sprintf("File %s is too large (max 10MB)", file.Filename),
				Err:      newError(KindOversize, file.Filename, nil),
			})
			continue
		}

		text, err := p.Extract(file)
		if err != nil {
			log.Printf("[ingest] extraction failed for %s: %v", file.Filename, err)
			results = append(results, upload.Extraction{Filename: file.Filename, Text: fragment(file.Filename, text), Err: err})
			continue
		}
		results = append(results, upload.Extraction{Filename: file.Filename, Text: fragment(file.Filename, text)})
	}
	return results
}

// fragment prefixes extracted text with its originating filename.
func fragment(filename, text string) string {
	return fmt.Sprintf("Content from %s:\n%s", filename, text)
}
