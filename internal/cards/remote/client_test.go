package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestClient(baseURL string) *Client {
	opts := DefaultClientOptions(baseURL)
	opts.RateLimit = rate.Inf
	return NewClient(opts)
}

func TestFetchImage(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/")
	data, err := client.FetchImage(context.Background(), "cardimg/BS1/1.png")
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("body = %q", data)
	}
	if gotPath != "/cardimg/BS1/1.png" {
		t.Errorf("requested path = %q", gotPath)
	}
}

func TestFetchImageRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	opts := DefaultClientOptions(server.URL + "/")
	opts.RateLimit = rate.Inf
	opts.InitialBackoff = time.Millisecond
	client := NewClient(opts)

	data, err := client.FetchImage(context.Background(), "x.png")
	if err != nil {
		t.Fatalf("FetchImage() error = %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("body = %q", data)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestFetchImageDoesNotRetryNotFound(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/")
	if _, err := client.FetchImage(context.Background(), "missing.png"); err == nil {
		t.Fatal("FetchImage() should fail on 404")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on 4xx)", attempts)
	}
}

func TestFetchImageEmptyIdentifier(t *testing.T) {
	client := newTestClient("http://example.invalid/")
	if _, err := client.FetchImage(context.Background(), ""); err == nil {
		t.Error("FetchImage(\"\") should fail")
	}
}

func TestURLConcatenation(t *testing.T) {
	client := newTestClient("https://cards.example.com/images/")
	want := "https://cards.example.com/images/cardimg/BS2/7.png"
	if got := client.URL("cardimg/BS2/7.png"); got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
