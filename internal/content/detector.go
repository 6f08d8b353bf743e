package content

import (
	"bytes"
	"path/filepath"
	"strings"
)

// extensionTable is the explicit, case-insensitive path-extension map
// consulted before content sniffing.
var extensionTable = map[string]Type{
	".md":       TypeMarkdown,
	".markdown": TypeMarkdown,
	".txt":      TypePlainText,
	".html":     TypeHTML,
	".htm":      TypeHTML,
	".rst":      TypeRestructuredText,
	".adoc":     TypeAsciiDoc,
	".asciidoc": TypeAsciiDoc,
	".org":      TypeOrgMode,
	".json":     TypeJSON,
	".yaml":     TypeYAML,
	".yml":      TypeYAML,
	".toml":     TypeTOML,
	".conf":     TypeConfig,
	".config":   TypeConfig,
	".cfg":      TypeConfig,
	".ini":      TypeConfig,

	".rs":   TypeSourceCode,
	".go":   TypeSourceCode,
	".js":   TypeSourceCode,
	".ts":   TypeSourceCode,
	".jsx":  TypeSourceCode,
	".tsx":  TypeSourceCode,
	".py":   TypeSourceCode,
	".java": TypeSourceCode,
	".c":    TypeSourceCode,
	".h":    TypeSourceCode,
	".cpp":  TypeSourceCode,
	".sh":   TypeSourceCode,
	".bash": TypeSourceCode,
	".zsh":  TypeSourceCode,
	".fish": TypeSourceCode,

	".bin":   TypeUnknown,
	".exe":   TypeUnknown,
	".dll":   TypeUnknown,
	".so":    TypeUnknown,
	".dylib": TypeUnknown,
	".o":     TypeUnknown,
	".obj":   TypeUnknown,
	".png":   TypeUnknown,
	".jpg":   TypeUnknown,
	".jpeg":  TypeUnknown,
	".gif":   TypeUnknown,
	".pdf":   TypeUnknown,
}

// DetectType determines the content type of path/data: extension first
// (case-insensitive), falling back to content sniffing.
func DetectType(path string, data []byte) Type {
	ext := strings.ToLower(filepath.Ext(path))
	if t, ok := extensionTable[ext]; ok {
		return t
	}
	return detectByContent(data)
}

func detectByContent(data []byte) Type {
	if bytes.IndexByte(data, 0) >= 0 {
		return TypeUnknown
	}

	text := string(data)
	lower := strings.ToLower(text)
	if strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype html") {
		return TypeHTML
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return TypeJSON
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			return TypeMarkdown
		}
	}

	return TypePlainText
}
