package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
}

func TestSearchDecodesResults(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/search" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var payload struct {
			Query string `json:"query"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.Query != "exoplanet atmospheres" {
			t.Fatalf("unexpected query %q", payload.Query)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"title":"A","link":"https://pubmed.ncbi.nlm.nih.gov/1/","date":"2023-01-01"},
			{"title":"B","link":"https://pubmed.ncbi.nlm.nih.gov/2/","date":"2022-05-04"},
			{"title":"C","link":"https://pubmed.ncbi.nlm.nih.gov/3/","date":"2024-02-02"}]`))
	})

	results, err := client.Search(context.Background(), "exoplanet atmospheres")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 3 || results[0].Title != "A" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestSearchEmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	results, err := client.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", results)
	}
}

func TestSearchNormalizesServerErrors(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"The PubMed search service is currently unavailable."}`))
	})

	_, err := client.Search(context.Background(), "query")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", apiErr.Status)
	}
	if apiErr.Message != "The PubMed search service is currently unavailable." {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestAnalyzeMapsSentinelToErrNoAbstract(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"link":"https://pubmed.ncbi.nlm.nih.gov/9/","title":"T","abstract":"Abstract not available.","summary":"","sentiment":""}`))
	})

	_, err := client.Analyze(context.Background(), "https://pubmed.ncbi.nlm.nih.gov/9/")
	if !errors.Is(err, ErrNoAbstract) {
		t.Fatalf("expected ErrNoAbstract, got %v", err)
	}
}

func TestAnalyzeFillsDefaults(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"T","abstract":"Real text.","summary":"S"}`))
	})

	detail, err := client.Analyze(context.Background(), "https://pubmed.ncbi.nlm.nih.gov/9/")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if detail.Link != "https://pubmed.ncbi.nlm.nih.gov/9/" {
		t.Fatalf("link not defaulted: %q", detail.Link)
	}
	if detail.Sentiment != SentimentUnknown {
		t.Fatalf("sentiment not defaulted: %q", detail.Sentiment)
	}
}

func TestTranslatePassThroughLaws(t *testing.T) {
	t.Parallel()

	texts := []string{"Title", "Summary", "Abstract"}

	// Default language: the request must never leave the client.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("translate should not be called for the default language")
	})
	if got := client.Translate(context.Background(), texts, "en"); !equalStrings(got, texts) {
		t.Fatalf("default language should pass through, got %#v", got)
	}
	if got := client.Translate(context.Background(), nil, "es"); got != nil {
		t.Fatalf("empty input should pass through, got %#v", got)
	}

	// Server failure: inputs come back unchanged, no error surfaces.
	failing := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	if got := failing.Translate(context.Background(), texts, "es"); !equalStrings(got, texts) {
		t.Fatalf("failure should pass through, got %#v", got)
	}

	// Length mismatch is treated as a failure.
	short := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"translations":["solo uno"]}`))
	})
	if got := short.Translate(context.Background(), texts, "es"); !equalStrings(got, texts) {
		t.Fatalf("length mismatch should pass through, got %#v", got)
	}
}

func TestTranslateUsesBatchedRequest(t *testing.T) {
	t.Parallel()

	calls := 0
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var payload struct {
			Texts []string `json:"texts"`
			Lang  string   `json:"lang"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if len(payload.Texts) != 3 || payload.Lang != "es" {
			t.Fatalf("unexpected payload: %+v", payload)
		}
		w.Write([]byte(`{"translations":["Título","Resumen","Abstracto"]}`))
	})

	got := client.Translate(context.Background(), []string{"Title", "Summary", "Abstract"}, "es")
	if calls != 1 {
		t.Fatalf("expected one batched call, got %d", calls)
	}
	if got[0] != "Título" || got[2] != "Abstracto" {
		t.Fatalf("unexpected translations: %#v", got)
	}
}

func TestChatRoundTrip(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Message        string `json:"message"`
			ConversationID string `json:"conversation_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.ConversationID != "conv-1" {
			t.Fatalf("conversation id = %q", payload.ConversationID)
		}
		w.Write([]byte(`{"reply":"JWST is a space telescope.","sources":["https://nasa.gov"]}`))
	})

	reply, err := client.Chat(context.Background(), "What is JWST?", "conv-1")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Reply == "" || len(reply.Sources) != 1 {
		t.Fatalf("unexpected reply: %#v", reply)
	}
}

func TestChatErrorUsesReplyField(t *testing.T) {
	t.Parallel()

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
		w.Write([]byte(`{"reply":"Sorry, I am having trouble connecting to the network."}`))
	})

	_, err := client.Chat(context.Background(), "hello", "conv-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Message != "Sorry, I am having trouble connecting to the network." {
		t.Fatalf("message = %q", apiErr.Message)
	}
}

func TestArticleID(t *testing.T) {
	t.Parallel()

	if got := ArticleID("https://pubmed.ncbi.nlm.nih.gov/37715762/"); got != "37715762" {
		t.Fatalf("ArticleID = %q", got)
	}
	if got := ArticleID("https://example.com/paper"); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
