package content

import (
	"regexp"
	"strings"
)

// Handler extracts indexable text from raw content of one Type. New
// handlers are added by registering with a Registry; no existing handler
// needs to change (open for extension, spec.md §4.1/§9).
type Handler interface {
	ContentType() Type
	Process(raw string) (string, error)
}

var (
	markdownLinkRe   = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownFenceRe  = regexp.MustCompile("(?s)```.*?```")
	markdownInlineRe = regexp.MustCompile("`[^`]+`")
	htmlTagRe        = regexp.MustCompile(`<[^>]*>`)
	blankRunRe       = regexp.MustCompile(`\n{3,}`)
)

// MarkdownHandler strips heading markers, unwraps link text, and removes
// code fences/inline code, preserving prose for lexical/semantic indexing.
type MarkdownHandler struct{}

func (MarkdownHandler) ContentType() Type { return TypeMarkdown }

func (MarkdownHandler) Process(raw string) (string, error) {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			lines[i] = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		}
	}
	processed := strings.Join(lines, "\n")
	processed = markdownFenceRe.ReplaceAllString(processed, "")
	processed = markdownInlineRe.ReplaceAllString(processed, "")
	processed = markdownLinkRe.ReplaceAllString(processed, "$1")
	return processed, nil
}

// HTMLHandler converts block-ending tags to newlines, strips remaining
// tags, and collapses excess blank lines.
type HTMLHandler struct{}

func (HTMLHandler) ContentType() Type { return TypeHTML }

func (HTMLHandler) Process(raw string) (string, error) {
	processed := raw
	replacer := strings.NewReplacer(
		"<br>", "\n", "<br/>", "\n", "<br />", "\n",
		"</p>", "\n\n", "</div>", "\n",
		"</h1>", "\n\n", "</h2>", "\n\n", "</h3>", "\n\n",
		"</h4>", "\n\n", "</h5>", "\n\n", "</h6>", "\n\n",
	)
	processed = replacer.Replace(processed)
	processed = htmlTagRe.ReplaceAllString(processed, "")
	processed = blankRunRe.ReplaceAllString(processed, "\n\n")
	return strings.TrimSpace(processed), nil
}

// structuredKVHandler extracts string keys/values from line-oriented
// structured formats (JSON/YAML/TOML), discarding punctuation/operators.
type structuredKVHandler struct {
	t Type
}

func (h structuredKVHandler) ContentType() Type { return h.t }

func (h structuredKVHandler) Process(raw string) (string, error) {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		cleaned := strings.Map(func(r rune) rune {
			switch r {
			case '"', '\'', ',', ':', '{', '}', '[', ']', '=':
				return ' '
			default:
				return r
			}
		}, trimmed)
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return strings.Join(out, "\n"), nil
}

// JSONHandler extracts string keys/values, discarding JSON punctuation.
func JSONHandler() Handler { return structuredKVHandler{t: TypeJSON} }

// YAMLHandler extracts keys/values, discarding YAML punctuation.
func YAMLHandler() Handler { return structuredKVHandler{t: TypeYAML} }

// TOMLHandler extracts keys/values, discarding TOML punctuation.
func TOMLHandler() Handler { return structuredKVHandler{t: TypeTOML} }

// ConfigHandler treats generic config files the same as structured KV.
func ConfigHandler() Handler { return structuredKVHandler{t: TypeConfig} }

// commentSyntax maps a comment-prefix token per language family. This is
// intentionally simple (line-comment only) since full per-language
// comment-block grammars are outside this component's contract.
var commentSyntax = []string{"//", "#", "--", ";"}

// SourceCodeHandler extracts only the comment text from source code,
// discarding executable statements.
type SourceCodeHandler struct{}

func (SourceCodeHandler) ContentType() Type { return TypeSourceCode }

func (SourceCodeHandler) Process(raw string) (string, error) {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, marker := range commentSyntax {
			if strings.HasPrefix(trimmed, marker) {
				out = append(out, strings.TrimSpace(strings.TrimPrefix(trimmed, marker)))
				break
			}
		}
	}
	return strings.Join(out, "\n"), nil
}

// PlainTextHandler is the identity handler for already-plain prose.
type PlainTextHandler struct{}

func (PlainTextHandler) ContentType() Type { return TypePlainText }

func (PlainTextHandler) Process(raw string) (string, error) { return raw, nil }

// passthroughHandler is used for lightly-marked-up prose formats
// (reStructuredText, AsciiDoc, Org mode) that do not yet have a dedicated
// transformation but must still be indexable.
type passthroughHandler struct{ t Type }

func (h passthroughHandler) ContentType() Type              { return h.t }
func (h passthroughHandler) Process(raw string) (string, error) { return raw, nil }

func RestructuredTextHandler() Handler { return passthroughHandler{t: TypeRestructuredText} }
func AsciiDocHandler() Handler         { return passthroughHandler{t: TypeAsciiDoc} }
func OrgModeHandler() Handler          { return passthroughHandler{t: TypeOrgMode} }
