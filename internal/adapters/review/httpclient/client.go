package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"transcheck/internal/domain"
	"transcheck/internal/ports"
)

// Client is an HTTP-backed reviewer speaking the OpenAI-compatible chat API
// (openai, openrouter) or the Ollama chat API.
type Client struct {
	ProviderType string
	APIKey       string
	BaseURL      string
	Model        string
	http         *resty.Client
}

func New(providerType, apiKey, baseURL, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().SetTimeout(timeout)
	return &Client{ProviderType: strings.ToLower(providerType), APIKey: apiKey, BaseURL: baseURL, Model: model, http: c}
}

const systemPrompt = `You are a meticulous bilingual translation QA engine. ` +
	`Compare source and target segments and report translation issues. ` +
	`Be strict with numbers/dates/names/terminology; do not invent issues. ` +
	`Return ONLY JSON with this shape:
{
  "issues": [
    {
      "segment": <int>,
      "type": "number_error|date_error|name_error|terminology|omission|addition|mistranslation|orthography|punctuation|formatting|other",
      "severity": "high|medium|low",
      "evidence": "<string>",
      "suggestion": "<string, optional>"
    }
  ]
}`

func buildPrompt(batch []ports.Pair) string {
	lines := []string{
		"Evaluate the following aligned segments.",
		"If a segment is fine, do not add an issue for it.",
		"",
		"Segments:",
	}
	for _, p := range batch {
		lines = append(lines, fmt.Sprintf("[%d] SRC: %s", p.Segment, strings.TrimSpace(p.Source)))
		lines = append(lines, fmt.Sprintf("[%d] TGT: %s", p.Segment, strings.TrimSpace(p.Target)))
	}
	return strings.Join(lines, "\n")
}

// Review sends one batch and returns normalized issues. A failed chat call
// is retried once with a short backoff; unparseable model output fails the
// batch so the runner surfaces it as a run error.
func (c *Client) Review(ctx context.Context, batch []ports.Pair) ([]domain.Issue, error) {
	prompt := buildPrompt(batch)
	var content string
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		content, err = c.chat(ctx, prompt)
		if err == nil {
			break
		}
		if attempt == 2 || ctx.Err() != nil {
			return nil, err
		}
		time.Sleep(time.Duration(200*attempt) * time.Millisecond)
	}
	found, err := parseIssues(content)
	if err != nil {
		return nil, err
	}
	return normalize(found), nil
}

func (c *Client) Test(ctx context.Context) error {
	_, err := c.chat(ctx, "Reply with {\"issues\":[]}")
	return err
}

func (c *Client) chat(ctx context.Context, prompt string) (string, error) {
	switch c.ProviderType {
	case "ollama":
		return c.chatOllama(ctx, prompt)
	case "openai", "openrouter":
		return c.chatOpenAI(ctx, prompt)
	default:
		return "", fmt.Errorf("unsupported review provider: %s", c.ProviderType)
	}
}

func (c *Client) chatOpenAI(ctx context.Context, prompt string) (string, error) {
	url := c.completionsURL()
	body := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.0,
		"response_format": map[string]string{"type": "json_object"},
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	// ForceContentType: some gateways answer chat JSON without a content type
	r := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.APIKey).
		SetHeader("Content-Type", "application/json").
		ForceContentType("application/json").
		SetBody(body).SetResult(&resp)
	rr, err := r.Post(url)
	if err != nil {
		return "", err
	}
	if rr.IsError() {
		// some backends reject response_format; retry without it
		if rr.StatusCode() == 400 {
			delete(body, "response_format")
			rr2, err2 := c.http.R().SetContext(ctx).
				SetHeader("Authorization", "Bearer "+c.APIKey).
				SetHeader("Content-Type", "application/json").
				ForceContentType("application/json").
				SetBody(body).SetResult(&resp).Post(url)
			if err2 != nil {
				return "", err2
			}
			if rr2.IsError() {
				return "", fmt.Errorf("review chat: %s; body: %s", rr2.Status(), abbreviate(rr2.String(), 500))
			}
		} else {
			return "", fmt.Errorf("review chat: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) chatOllama(ctx context.Context, prompt string) (string, error) {
	base := c.BaseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	url := strings.TrimRight(base, "/") + "/api/chat"
	body := map[string]any{
		"model": c.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"stream": false,
		"format": "json",
		"options": map[string]any{"temperature": 0.0},
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		ForceContentType("application/json").
		SetBody(body).SetResult(&resp).Post(url)
	if err != nil {
		return "", err
	}
	if rr.IsError() {
		return "", fmt.Errorf("ollama chat: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// completionsURL builds the chat completions URL for openai/openrouter bases
// whether or not the base already carries the API path.
func (c *Client) completionsURL() string {
	base := c.BaseURL
	if base == "" {
		if c.ProviderType == "openrouter" {
			base = "https://openrouter.ai"
		} else {
			base = "https://api.openai.com"
		}
	}
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + "/chat/completions"
	}
	if strings.HasSuffix(b, "/v1") {
		return b + "/chat/completions"
	}
	if c.ProviderType == "openrouter" {
		return b + "/api/v1/chat/completions"
	}
	return b + "/v1/chat/completions"
}

type rawIssue struct {
	Segment    int    `json:"segment"`
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Evidence   string `json:"evidence"`
	Suggestion string `json:"suggestion"`
}

// parseIssues salvages the issues array from possibly messy model output:
// fenced code blocks are stripped and, failing a direct unmarshal, the
// outermost brace window is reparsed.
func parseIssues(content string) ([]rawIssue, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := s[idx+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	var obj struct {
		Issues []rawIssue `json:"issues"`
	}
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj.Issues, nil
	}
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			if err := json.Unmarshal([]byte(s[i:j+1]), &obj); err == nil {
				return obj.Issues, nil
			}
		}
	}
	return nil, fmt.Errorf("failed to parse issues JSON; content: %s", abbreviate(s, 500))
}

func normalize(found []rawIssue) []domain.Issue {
	out := make([]domain.Issue, 0, len(found))
	for _, it := range found {
		typ := it.Type
		if typ == "" {
			typ = "other"
		}
		sev := it.Severity
		switch sev {
		case domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow:
		default:
			sev = domain.SeverityLow
		}
		detail := map[string]any{"evidence": it.Evidence}
		if it.Suggestion != "" {
			detail["suggestion"] = it.Suggestion
		}
		out = append(out, domain.Issue{
			Type:     "llm_" + typ,
			Severity: sev,
			Segment:  it.Segment,
			Detail:   detail,
		})
	}
	return out
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
