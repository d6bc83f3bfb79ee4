package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TestPlaintextFetcherFetch tests the direct .md route fetcher.
func TestPlaintextFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns body on 200", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			_, _ = w.Write([]byte("# Get Orders\n\nReturns orders."))
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(withTestClient(srv))
		result, err := f.Fetch(context.Background(), srv.URL+"/reference/get_orders.md", 0)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if result.StatusCode != http.StatusOK {
			t.Errorf("StatusCode = %d, want 200", result.StatusCode)
		}
		if !strings.Contains(string(result.Content), "# Get Orders") {
			t.Errorf("unexpected content: %q", result.Content)
		}
		if result.Raw != nil {
			t.Error("plaintext route should not produce a raw payload")
		}
	})

	t.Run("sends user agent and extra headers", func(t *testing.T) {
		t.Parallel()

		var gotUA, gotAuth, gotAccept string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			gotAuth = r.Header.Get("Authorization")
			gotAccept = r.Header.Get("Accept")
			_, _ = w.Write([]byte("ok"))
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(
			withTestClient(srv),
			WithUserAgent("docmirror-test/1.0"),
			WithHeaders(map[string]string{"Authorization": "Bearer test-token"}),
		)
		if _, err := f.Fetch(context.Background(), srv.URL, 0); err != nil {
			t.Fatalf("fetch failed: %v", err)
		}

		if gotUA != "docmirror-test/1.0" {
			t.Errorf("User-Agent = %q, want 'docmirror-test/1.0'", gotUA)
		}
		if gotAuth != "Bearer test-token" {
			t.Errorf("Authorization = %q, want 'Bearer test-token'", gotAuth)
		}
		if !strings.Contains(gotAccept, "text/markdown") {
			t.Errorf("Accept = %q, should prefer markdown", gotAccept)
		}
	})

	t.Run("404 is a permanent error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(withTestClient(srv))
		_, err := f.Fetch(context.Background(), srv.URL, 0)
		if err == nil {
			t.Fatal("expected error for 404")
		}

		var fe *Error
		if !errors.As(err, &fe) {
			t.Fatalf("expected *Error, got %T", err)
		}
		if fe.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", fe.StatusCode)
		}
		if fe.Class != ClassPermanent {
			t.Errorf("Class = %v, want permanent", fe.Class)
		}
		if Retryable(err) {
			t.Error("404 should not be retryable")
		}
	})

	t.Run("429 is a transient error", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(withTestClient(srv))
		_, err := f.Fetch(context.Background(), srv.URL, 0)
		if err == nil {
			t.Fatal("expected error for 429")
		}

		if !IsTransient(err) {
			t.Errorf("429 should be transient, got class %v", ClassOf(err))
		}
		if !Retryable(err) {
			t.Error("429 should be retryable")
		}
	})

	t.Run("empty body is malformed", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(withTestClient(srv))
		_, err := f.Fetch(context.Background(), srv.URL, 0)
		if err == nil {
			t.Fatal("expected error for empty body")
		}

		if !IsMalformed(err) {
			t.Errorf("empty body should be malformed, got class %v", ClassOf(err))
		}
	})

	t.Run("connection failure is transient", func(t *testing.T) {
		t.Parallel()

		// Server is closed before the fetch so the dial fails.
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		url := srv.URL
		srv.Close()

		f := NewPlaintextFetcher()
		_, err := f.Fetch(context.Background(), url, 0)
		if err == nil {
			t.Fatal("expected error for closed server")
		}
		if !IsTransient(err) {
			t.Errorf("connection failure should be transient, got class %v", ClassOf(err))
		}
	})

	t.Run("body is truncated at the size limit", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}))
		defer srv.Close()

		f := NewPlaintextFetcher(withTestClient(srv), WithMaxBodySize(10))
		result, err := f.Fetch(context.Background(), srv.URL, 0)
		if err != nil {
			t.Fatalf("fetch failed: %v", err)
		}
		if len(result.Content) != 10 {
			t.Errorf("got %d bytes, want 10", len(result.Content))
		}
	})

	t.Run("invalid URL is a permanent error", func(t *testing.T) {
		t.Parallel()

		f := NewPlaintextFetcher()
		_, err := f.Fetch(context.Background(), "://not-a-url", 0)
		if err == nil {
			t.Fatal("expected error for invalid URL")
		}
		if ClassOf(err) != ClassPermanent {
			t.Errorf("invalid URL should be permanent, got class %v", ClassOf(err))
		}
	})
}

// TestDecodeCharset tests Content-Type driven decoding.
func TestDecodeCharset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        []byte
		contentType string
		want        string
	}{
		{
			name:        "utf-8 passes through",
			body:        []byte("héllo"),
			contentType: "text/plain; charset=utf-8",
			want:        "héllo",
		},
		{
			name:        "missing content type passes through",
			body:        []byte("hello"),
			contentType: "",
			want:        "hello",
		},
		{
			name:        "latin-1 is decoded",
			body:        []byte{0x68, 0xe9, 0x6c, 0x6c, 0x6f}, // "héllo" in ISO-8859-1
			contentType: "text/plain; charset=iso-8859-1",
			want:        "héllo",
		},
		{
			name:        "unknown charset passes through",
			body:        []byte("hello"),
			contentType: "text/plain; charset=not-a-charset",
			want:        "hello",
		},
		{
			name:        "unparseable content type passes through",
			body:        []byte("hello"),
			contentType: ";;;",
			want:        "hello",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := decodeCharset(tt.body, tt.contentType); string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// withTestClient wires the test server's client into the fetcher.
func withTestClient(srv *httptest.Server) PlaintextOption {
	return WithHTTPClient(srv.Client())
}
