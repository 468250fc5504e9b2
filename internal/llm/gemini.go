package llm

import (
	"context"
	"encoding/json"

	genai "google.golang.org/genai"
)

// GeminiClient is a thin wrapper around the official genai client. It only
// focuses on the API call itself; retry and backoff are applied by the
// dispatcher.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for the given model. The API key is an
// explicit dependency supplied by process bootstrap; it is never read from
// a package-level global here.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON concatenates the system instruction and the payload JSON and
// asks for application/json output. Any transport or endpoint failure comes
// back as an UpstreamError.
func (g *GeminiClient) GenerateJSON(ctx context.Context, system string, payload any) (json.RawMessage, error) {
	in, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, err
	}
	full := system + "\n\n[INPUT JSON]\n" + string(in)

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: full}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return nil, upstream(err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, upstream(ErrEmptyOutput)
	}
	txt := resp.Candidates[0].Content.Parts[0].Text
	if txt == "" {
		return nil, upstream(ErrEmptyOutput)
	}
	return json.RawMessage(txt), nil
}
