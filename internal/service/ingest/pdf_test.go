package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/sitewright/backend/internal/model/upload"
)

// pdfFixture assembles a minimal valid PDF with one text-drawing content
// stream per page. Object offsets are recorded while writing so the xref
// table is exact. Page texts are embedded as literal strings, so PDF
// escapes like \n are allowed.
func pdfFixture(t *testing.T, pageTexts []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	writeObj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, 0, len(pageTexts))
	for i := range pageTexts {
		kids = append(kids, fmt.Sprintf("%d 0 R", 3+2*i))
	}
	writeObj("<< /Type /Catalog /Pages 2 0 R >>")
	writeObj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pageTexts)))

	fontRef := 3 + 2*len(pageTexts)
	for i, text := range pageTexts {
		writeObj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>", fontRef, 4+2*i))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		writeObj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}
	writeObj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, offset := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offset)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)
	return buf.Bytes()
}

func TestExtractMultiPagePDF(t *testing.T) {
	p := NewPipeline(0)
	fixture := pdfFixture(t, []string{"first page", `second page\n`})

	text, err := p.Extract(upload.File{Filename: "doc.pdf", Content: fixture, Size: int64(len(fixture))})
	if err != nil {
		t.Fatalf("Extract err: %v", err)
	}

	// Pages join with a single newline; the trailing newline drawn on the
	// second page is trimmed from the final result.
	if text != "first page\nsecond page" {
		t.Fatalf("unexpected extracted text %q", text)
	}
}

func TestProcessWrapsPDFTextAsFragment(t *testing.T) {
	p := NewPipeline(0)
	fixture := pdfFixture(t, []string{"hello from page one"})

	results := p.Process([]upload.File{
		{Filename: "doc.pdf", Content: fixture, Size: int64(len(fixture))},
	})
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	if results[0].Err != nil {
		t.Fatalf("unexpected extraction error: %v", results[0].Err)
	}
	if results[0].Text != "Content from doc.pdf:\nhello from page one" {
		t.Fatalf("unexpected fragment %q", results[0].Text)
	}
}
