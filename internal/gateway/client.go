// Package gateway is the typed HTTP client for the AIONEX backend. Each
// method maps one endpoint; callers own presentation of errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultRequestTimeout = 15 * time.Second

// Config describes how to build a Client.
type Config struct {
	// BaseURL of the backend, e.g. http://127.0.0.1:5000.
	BaseURL string
	// DefaultLanguage short-circuits Translate when it matches the
	// requested language.
	DefaultLanguage string
	// HTTPClient overrides the default client (tests).
	HTTPClient *http.Client
}

// Client talks to the backend API. All requests share one rate limiter.
type Client struct {
	base        string
	defaultLang string
	client      *http.Client
	limiter     *rate.Limiter
}

// New builds a Client with sane defaults.
func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = "en"
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultRequestTimeout}
	}
	return &Client{
		base:        base,
		defaultLang: lang,
		client:      client,
		limiter:     rate.NewLimiter(rate.Every(300*time.Millisecond), 2),
	}
}

// Search queries the backend. An empty slice is a valid result and is
// distinct from an error.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	payload := map[string]string{"query": query}
	if err := c.post(ctx, "/api/search", payload, &results); err != nil {
		return nil, err
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results, nil
}

// Analyze fetches the abstract, AI summary and sentiment for one article.
// Articles without an abstract yield ErrNoAbstract.
func (c *Client) Analyze(ctx context.Context, url string) (*ArticleDetail, error) {
	var detail ArticleDetail
	payload := map[string]string{"url": url}
	if err := c.post(ctx, "/api/analyze", payload, &detail); err != nil {
		return nil, err
	}
	if strings.TrimSpace(detail.Abstract) == noAbstractSentinel {
		return nil, ErrNoAbstract
	}
	if detail.Link == "" {
		detail.Link = url
	}
	if detail.Sentiment == "" {
		detail.Sentiment = SentimentUnknown
	}
	return &detail, nil
}

// Reputation fetches the display metrics for a PubMed identifier.
func (c *Client) Reputation(ctx context.Context, id string) (*ReputationScore, error) {
	if id == "" {
		return nil, fmt.Errorf("reputation: empty article id")
	}
	var score ReputationScore
	if err := c.get(ctx, "/api/reputation/"+id, &score); err != nil {
		return nil, err
	}
	return &score, nil
}

// Translate renders texts in the target language. It is total: for the
// default language, empty input, or any transport or server failure it
// returns the inputs unchanged rather than an error.
func (c *Client) Translate(ctx context.Context, texts []string, lang string) []string {
	if len(texts) == 0 || lang == "" || lang == c.defaultLang {
		return texts
	}
	payload := map[string]any{"texts": texts, "lang": lang}
	var parsed struct {
		Translations []string `json:"translations"`
	}
	if err := c.post(ctx, "/api/translate", payload, &parsed); err != nil {
		return texts
	}
	if len(parsed.Translations) != len(texts) {
		return texts
	}
	return parsed.Translations
}

// Ask runs extractive question answering over the given context text.
func (c *Client) Ask(ctx context.Context, question, contextText string) (string, error) {
	payload := map[string]string{"question": question, "context": contextText}
	var parsed struct {
		Answer string `json:"answer"`
	}
	if err := c.post(ctx, "/api/ask", payload, &parsed); err != nil {
		return "", err
	}
	return strings.TrimSpace(parsed.Answer), nil
}

// Chat sends one conversational turn. The conversation id groups turns
// for backend-side context.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (ChatReply, error) {
	payload := map[string]string{"message": message, "conversation_id": conversationID}
	var reply ChatReply
	if err := c.post(ctx, "/api/chat", payload, &reply); err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: extractMessage(body)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", req.URL.Path, err)
	}
	return nil
}

// extractMessage pulls the human-readable text out of an error body. The
// backend reports failures as {"error": ...} or, for the chat endpoint,
// sometimes as {"reply": ...}.
func extractMessage(body []byte) string {
	var parsed struct {
		Error string `json:"error"`
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Reply != "" {
			return parsed.Reply
		}
	}
	return "The service is currently unavailable."
}
