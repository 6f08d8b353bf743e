// Package content detects a file's content type and extracts
// search-optimized indexable text from it (spec.md §4.1).
package content

// Type enumerates the content types the dispatcher can recognize.
type Type string

const (
	TypeMarkdown           Type = "markdown"
	TypePlainText          Type = "plain_text"
	TypeHTML               Type = "html"
	TypeRestructuredText   Type = "restructured_text"
	TypeAsciiDoc           Type = "asciidoc"
	TypeOrgMode            Type = "org_mode"
	TypeJSON               Type = "json"
	TypeYAML               Type = "yaml"
	TypeTOML               Type = "toml"
	TypeSourceCode         Type = "source_code"
	TypeConfig             Type = "config"
	TypeUnknown            Type = "unknown"
)

// ShouldIndex reports whether documents of this type carry indexable text.
func (t Type) ShouldIndex() bool {
	return t != TypeUnknown
}

// ProcessingError describes a failure inside a specific content handler.
type ProcessingError struct {
	Stage  string
	Detail string
}

func (e *ProcessingError) Error() string {
	return "content processing failed at " + e.Stage + ": " + e.Detail
}
