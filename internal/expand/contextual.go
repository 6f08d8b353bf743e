package expand

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
)

// ContextualWeight is applied to every variant a ContextualExpander
// produces; LLM-generated rewrites are weighted highest since they carry
// the most semantic context.
const ContextualWeight = 0.95

// MaxContextualVariants bounds how many rewrites are requested per call,
// keeping latency and cost predictable.
const MaxContextualVariants = 4

const contextualSystemPrompt = `You rewrite a user's search query into alternative phrasings that a document search engine can also try. Given one query, return a JSON array of up to %d short alternative search queries that preserve the original intent but vary vocabulary, phrasing, or specificity. Return ONLY the JSON array, nothing else.`

// ContextualExpander asks an LLM to produce alternate phrasings of the
// query, grounded on the same anthropic-sdk-go client wiring the pack uses
// for chat completion (message construction, system prompt, single text
// response parsing) adapted here to a structured-JSON rewrite task instead
// of a conversational reply.
type ContextualExpander struct {
	client anthropic.Client
	model  anthropic.Model
}

// ContextualConfig configures a ContextualExpander.
type ContextualConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// DefaultContextualModel is used when Config.Model is empty.
const DefaultContextualModel = "claude-3-5-haiku-20241022"

// NewContextualExpander builds a ContextualExpander from config.
func NewContextualExpander(cfg ContextualConfig) *ContextualExpander {
	model := cfg.Model
	if model == "" {
		model = DefaultContextualModel
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &ContextualExpander{
		client: anthropic.NewClient(opts...),
		model:  anthropic.Model(model),
	}
}

// Expand asks the model for alternate phrasings of query and parses them
// out of its JSON-array response. Malformed or empty model output degrades
// to zero variants rather than an error, since contextual expansion is an
// enhancement, not a required path — the caller's other expanders and the
// raw query still carry the search.
func (e *ContextualExpander) Expand(ctx context.Context, query string) ([]Variant, error) {
	system := fmt.Sprintf(contextualSystemPrompt, MaxContextualVariants)

	params := anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: 256,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(query)),
		},
		Temperature: param.NewOpt(0.3),
	}

	msg, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("expand: contextual expansion request failed: %w", err)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, nil
	}

	rewrites := parseRewrites(text)
	variants := make([]Variant, 0, len(rewrites))
	for _, r := range rewrites {
		r = strings.TrimSpace(r)
		if r == "" || strings.EqualFold(r, query) {
			continue
		}
		variants = append(variants, Variant{Text: r, Source: StrategyContextual, Weight: ContextualWeight})
		if len(variants) >= MaxContextualVariants {
			break
		}
	}
	return variants, nil
}

// parseRewrites extracts a JSON array of strings from the model's response,
// tolerating surrounding prose by locating the first '[' ... last ']' span.
func parseRewrites(text string) []string {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil
	}
	return out
}

var _ Expander = (*ContextualExpander)(nil)
