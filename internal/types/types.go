package types

// GeneratedFile represents one file extracted from a model response.
// Path uniquely identifies the file within a generation session.
type GeneratedFile struct {
	Path      string `json:"path"`
	Type      string `json:"type"` // e.g. "typescript", "css", "json"
	Content   string `json:"content"`
	Completed bool   `json:"completed"` // false while the file is still streaming
}
