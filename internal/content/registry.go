package content

// Registry dispatches raw content to the Handler registered for its Type.
// New content types are supported purely by registration (open/closed,
// spec.md §4.1's extensibility contract): no branch here needs to change.
type Registry struct {
	handlers map[Type]Handler
	fallback Handler
}

// NewRegistry builds a registry pre-populated with the built-in handlers.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[Type]Handler), fallback: PlainTextHandler{}}
	r.Register(MarkdownHandler{})
	r.Register(HTMLHandler{})
	r.Register(JSONHandler())
	r.Register(YAMLHandler())
	r.Register(TOMLHandler())
	r.Register(ConfigHandler())
	r.Register(SourceCodeHandler{})
	r.Register(PlainTextHandler{})
	r.Register(RestructuredTextHandler())
	r.Register(AsciiDocHandler())
	r.Register(OrgModeHandler())
	return r
}

// Register installs or replaces the handler for its ContentType().
func (r *Registry) Register(h Handler) {
	r.handlers[h.ContentType()] = h
}

// Dispatch detects the content type for (path, data) and, if indexable,
// returns the extracted text. Returns ok=false for non-indexable types
// (Unknown/binary) — that is a filtering decision, not an error.
func (r *Registry) Dispatch(path string, data []byte) (text string, t Type, ok bool, err error) {
	t = DetectType(path, data)
	if !t.ShouldIndex() {
		return "", t, false, nil
	}

	h, found := r.handlers[t]
	if !found {
		h = r.fallback
	}

	text, err = h.Process(string(data))
	if err != nil {
		return "", t, false, &ProcessingError{Stage: string(t), Detail: err.Error()}
	}
	return text, t, true, nil
}
