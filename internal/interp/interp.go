// Package interp translates natural-language questions into dispatch
// requests using a small instruction-following model. The model's output
// is advisory: the dispatch layer re-validates everything.
package interp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/boxline/boxline-data/internal/dispatch"
)

const (
	interpretMaxTokens = 500
	commentMaxTokens   = 400
)

// Interpreter turns user queries into structured requests.
type Interpreter struct {
	client Client
	model  string
	cache  *requestCache
	logger *slog.Logger
}

// New creates an Interpreter. Identical queries within the cache TTL are
// answered without a model round trip.
func New(client Client, model string, logger *slog.Logger) *Interpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interpreter{
		client: client,
		model:  model,
		cache:  newRequestCache(),
		logger: logger,
	}
}

// Interpret parses a natural-language query into a dispatch request. A
// model response that is not valid JSON yields a no-operation request
// with the parse failure as its description, not an error: only
// transport-level failures are errors.
func (i *Interpreter) Interpret(ctx context.Context, query string) (dispatch.Request, error) {
	key := strings.TrimSpace(query)
	if req, ok := i.cache.get(key); ok {
		i.logger.Debug("interpretation cache hit", "query", key)
		return req, nil
	}

	resp, err := i.client.CreateMessage(ctx, MessageRequest{
		Model:     i.model,
		MaxTokens: interpretMaxTokens,
		System:    systemPrompt,
		Messages:  buildMessages(key),
	})
	if err != nil {
		return dispatch.Request{}, fmt.Errorf("interpret query: %w", err)
	}
	i.logger.Debug("interpreted query",
		"query", key,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens)

	req := ParseResponse(resp.Text)
	if req.Operation != "" {
		i.cache.set(key, req)
	}
	return req, nil
}

// ParseResponse decodes the model's JSON reply, tolerating code fences
// and surrounding prose. Unparseable replies become a no-operation
// request carrying the failure as the description.
func ParseResponse(text string) dispatch.Request {
	raw := extractJSON(text)

	var wire struct {
		Function    *string        `json:"function"`
		Params      map[string]any `json:"params"`
		Description string         `json:"description"`
	}
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return dispatch.Request{
			Description: fmt.Sprintf("could not parse the interpretation: %v", err),
		}
	}

	req := dispatch.Request{
		Params:      wire.Params,
		Description: wire.Description,
	}
	if wire.Function != nil {
		req.Operation = *wire.Function
	}
	if req.Params == nil {
		req.Params = map[string]any{}
	}
	if req.Description == "" {
		req.Description = "running the analysis"
	}
	return req
}

// extractJSON trims code fences and clips to the outermost braces, since
// small models occasionally wrap their answer despite instructions.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// Comment writes a short observation about a completed analysis for the
// top of the response. Failures degrade to an empty comment.
func (i *Interpreter) Comment(ctx context.Context, query string, description string, topRows string) string {
	prompt := fmt.Sprintf(`Write a brief observation (2-3 sentences, plain text, no markdown)
about the following NBA stats result, pointing out one or two findings a
basketball fan would care about.

Question: %s
Analysis: %s

Top results:
%s

Observation:`, query, description, topRows)

	resp, err := i.client.CreateMessage(ctx, MessageRequest{
		Model:     i.model,
		MaxTokens: commentMaxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		i.logger.Warn("comment generation failed", "error", err)
		return ""
	}
	return strings.TrimSpace(resp.Text)
}

// Fallback answers a query the catalogue cannot serve with general
// knowledge, flagged as such.
func (i *Interpreter) Fallback(ctx context.Context, query string) string {
	prompt := fmt.Sprintf(`You are an NBA expert. Answer the question below from general
knowledge in 2-4 plain-text sentences. If the question asks for specific
statistics, add that exact figures would need to be verified. For
subjective questions, present more than one viewpoint.

Question: %s

Answer:`, query)

	resp, err := i.client.CreateMessage(ctx, MessageRequest{
		Model:     i.model,
		MaxTokens: commentMaxTokens,
		Messages:  []Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		i.logger.Warn("fallback generation failed", "error", err)
		return "Sorry, an answer could not be generated."
	}
	return strings.TrimSpace(resp.Text)
}
