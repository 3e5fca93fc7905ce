package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/skillcast/internal/prompts"
)

// Error represents a failed classification for a single source. The caller
// recovers by treating the source as yielding no keywords.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("classification error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("classification error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Classifier matches extracted text against a community's skill vocabulary
// using an injected LLM client. It performs no retries and no caching:
// identical text submitted twice is classified twice, and the result is not
// guaranteed to be deterministic.
type Classifier struct {
	client Client
	tier   ModelTier
}

// New creates a Classifier around an existing client handle. Client
// lifecycle is owned by the caller.
func New(client Client) *Classifier {
	return &Classifier{client: client, tier: TierLite}
}

// WithTier returns a Classifier that uses the given model tier.
func (c *Classifier) WithTier(tier ModelTier) *Classifier {
	return &Classifier{client: c.client, tier: tier}
}

// Classify returns the subset of vocabulary terms the model judged present
// or inferable in the text. An empty text or vocabulary yields an empty
// result without a service call.
func (c *Classifier) Classify(ctx context.Context, text string, vocabulary []string) ([]string, error) {
	if strings.TrimSpace(text) == "" || len(vocabulary) == 0 {
		return []string{}, nil
	}

	system := prompts.MustGet("classify.json", "keywords-system")
	user := prompts.Format(prompts.MustGet("classify.json", "keywords-user"), map[string]string{
		"Text":       text,
		"Vocabulary": strings.Join(vocabulary, ", "),
	})

	raw, err := c.client.Generate(ctx, system, user, c.tier)
	if err != nil {
		return nil, &Error{Message: "model request failed", Cause: err}
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		return nil, &Error{Message: "malformed model response", Cause: err}
	}

	return resp.Terms(), nil
}

// Structured is the strict response shape: a JSON object with a term list.
type Structured struct {
	Keywords []string `json:"keywords"`
}

// Response is the tagged union of acceptable model response shapes: either a
// structured term list or a comma-delimited plain-text enumeration. Exactly
// one branch is set.
type Response struct {
	Structured *Structured
	Delimited  string
}

// Terms normalizes either response shape into a flat list of trimmed,
// non-empty terms.
func (r *Response) Terms() []string {
	var raw []string
	if r.Structured != nil {
		raw = r.Structured.Keywords
	} else {
		raw = strings.Split(r.Delimited, ",")
	}

	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// ParseResponse interprets raw model output as one of the acceptable
// response shapes. JSON objects are validated against the keywords schema; a
// bare JSON array of strings is accepted as a structured response; anything
// else is treated as a comma-delimited enumeration.
func ParseResponse(raw string) (*Response, error) {
	cleaned := CleanJSONBlock(raw)

	if strings.HasPrefix(cleaned, "{") {
		if err := validateKeywordsJSON(cleaned); err != nil {
			return nil, err
		}
		var structured Structured
		if err := json.Unmarshal([]byte(cleaned), &structured); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords object: %w", err)
		}
		return &Response{Structured: &structured}, nil
	}

	if strings.HasPrefix(cleaned, "[") {
		var keywords []string
		if err := json.Unmarshal([]byte(cleaned), &keywords); err != nil {
			return nil, fmt.Errorf("failed to unmarshal keywords array: %w", err)
		}
		return &Response{Structured: &Structured{Keywords: keywords}}, nil
	}

	return &Response{Delimited: cleaned}, nil
}

// CleanJSONBlock removes markdown code block wrappers from model responses.
// LLMs often wrap JSON in ```json ... ``` blocks even when instructed not to.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}
