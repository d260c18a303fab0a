package gcs

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func staticTokenSource(token string) *tokenSource {
	return &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			return token, time.Now().Add(time.Hour), nil
		},
	}
}

func TestUploadReturnsPublicURL(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"name":"proofs/42/receipt.png"}`))
	}))
	defer srv.Close()

	client := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "agrilink-proofs",
		tokenSource:   staticTokenSource("tok-123"),
		apiBase:       srv.URL,
	}

	url, err := client.Upload(context.Background(), "proofs/42/receipt.png", "image/png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("upload returned error: %v", err)
	}

	if url != srv.URL+"/agrilink-proofs/proofs/42/receipt.png" {
		t.Fatalf("unexpected object url %s", url)
	}
	if !strings.Contains(gotPath, "/upload/storage/v1/b/agrilink-proofs/o?") {
		t.Fatalf("unexpected upload path %s", gotPath)
	}
	if !strings.Contains(gotPath, "name=proofs%2F42%2Freceipt.png") {
		t.Fatalf("object name not escaped in %s", gotPath)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotContentType != "image/png" {
		t.Fatalf("unexpected content type %q", gotContentType)
	}
	if gotBody != "png-bytes" {
		t.Fatalf("body not streamed, got %q", gotBody)
	}
}

func TestUploadRejectsEmptyObject(t *testing.T) {
	t.Parallel()

	client := &Client{
		httpClient:    http.DefaultClient,
		defaultBucket: "bucket",
		tokenSource:   staticTokenSource("tok"),
		apiBase:       defaultAPIBase,
	}
	if _, err := client.Upload(context.Background(), "  ", "image/png", strings.NewReader("x")); err == nil {
		t.Fatal("expected empty object name to be rejected")
	}
}

func TestUploadSurfacesBackendError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"denied"}`))
	}))
	defer srv.Close()

	client := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "bucket",
		tokenSource:   staticTokenSource("tok"),
		apiBase:       srv.URL,
	}

	_, err := client.Upload(context.Background(), "proofs/1/x.png", "image/png", strings.NewReader("x"))
	if err == nil {
		t.Fatal("expected error from backend")
	}
	if !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected backend body in error, got %v", err)
	}
}

func TestTokenSourceCachesUntilNearExpiry(t *testing.T) {
	t.Parallel()

	calls := 0
	ts := &tokenSource{
		fetch: func(context.Context) (string, time.Time, error) {
			calls++
			return "tok", time.Now().Add(time.Hour), nil
		},
	}

	for i := 0; i < 3; i++ {
		if _, err := ts.Token(context.Background()); err != nil {
			t.Fatalf("token fetch failed: %v", err)
		}
	}
	if calls != 1 {
		t.Fatalf("expected single upstream fetch, got %d", calls)
	}
}

func TestPingChecksBucketListing(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := &Client{
		httpClient:    srv.Client(),
		defaultBucket: "bucket",
		tokenSource:   staticTokenSource("tok"),
		apiBase:       srv.URL,
	}

	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if gotPath != "/storage/v1/b/bucket/o" {
		t.Fatalf("unexpected ping path %s", gotPath)
	}
}
