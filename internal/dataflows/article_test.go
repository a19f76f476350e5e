package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsURL(t *testing.T) {
	cases := map[string]bool{
		"https://example.com/news/tsmc-2nm": true,
		"http://example.com":                true,
		" https://example.com ":             true,
		"TSMC announced 2nm expansion":      false,
		"ftp://example.com":                 false,
		"see https://example.com for more":  false,
		"":                                  false,
	}
	for input, want := range cases {
		if got := IsURL(input); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestFetchExtractsParagraphs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><script>var x=1;</script></head>
			<body><nav>menu</nav>
			<p>TSMC expands 2nm capacity.</p>
			<p>Capex guidance raised.</p>
			<footer>legal</footer></body></html>`))
	}))
	defer srv.Close()

	text, err := NewArticleFetcher().Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.Contains(text, "TSMC expands 2nm capacity.") || !strings.Contains(text, "Capex guidance raised.") {
		t.Errorf("paragraph text missing: %q", text)
	}
	if strings.Contains(text, "var x=1") || strings.Contains(text, "menu") {
		t.Errorf("script/nav content leaked into article text: %q", text)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewArticleFetcher().Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
