package gateway

import (
	"errors"
	"fmt"
	"regexp"
)

// SearchResult is one row of a search response. Link is the unique key.
type SearchResult struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Date  string `json:"date"`
}

// Sentiment labels returned by the analyze endpoint.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentUnknown  = "UNKNOWN"
)

// ArticleDetail is the analysis of one article.
type ArticleDetail struct {
	Link      string `json:"link"`
	Title     string `json:"title"`
	Abstract  string `json:"abstract"`
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

// ReputationScore holds the backend's named 0..100 display metrics.
type ReputationScore struct {
	Components map[string]int `json:"components"`
}

// ChatReply is the assistant's answer plus optional source citations.
type ChatReply struct {
	Reply   string   `json:"reply"`
	Sources []string `json:"sources,omitempty"`
}

// APIError is the uniform error shape for non-2xx responses. Message is
// the human-readable text extracted from the response body when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.Status, e.Message)
}

// ErrNoAbstract marks an article the backend cannot analyze. Callers mark
// the originating result card non-interactive instead of showing a
// generic error banner, and must not issue follow-up fetches.
var ErrNoAbstract = errors.New("article has no abstract")

// noAbstractSentinel is the literal abstract the backend returns when
// PubMed carries no abstract for an article.
const noAbstractSentinel = "Abstract not available."

var pmidPattern = regexp.MustCompile(`pubmed\.ncbi\.nlm\.nih\.gov/(\d+)`)

// ArticleID extracts the PubMed identifier used by the reputation
// endpoint from an article link. Empty when the link has no PMID.
func ArticleID(link string) string {
	if match := pmidPattern.FindStringSubmatch(link); len(match) > 1 {
		return match[1]
	}
	return ""
}
