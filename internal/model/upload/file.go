package upload

// MaxFileBytes is the per-file ceiling enforced at the transport boundary.
// Oversized files never reach the extraction pipeline.
const MaxFileBytes = 10 << 20

// File is a transient uploaded file. It lives for one request only and is
// never persisted.
type File struct {
	Filename string
	Content  []byte
	Size     int64
}

// Extraction is the outcome of running one file through the ingestion
// pipeline. Text always carries the fragment merged into the outgoing
// query, even when extraction failed; Err carries the typed failure in
// parallel so callers can tell the two apart.
type Extraction struct {
	Filename string
	Text     string
	Err      error
}
