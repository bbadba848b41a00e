package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vikin91/repotrace/internal/models"
)

func TestGetReturnsBodyAndSetsUserAgent(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte("metadata"))
	}))
	defer srv.Close()

	client := NewClient(TLSPolicy{}, "repotrace/test")
	body, err := client.Get(context.Background(), srv.URL+"/repodata/repomd.xml")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(body) != "metadata" {
		t.Errorf("unexpected body: %q", body)
	}
	if gotAgent != "repotrace/test" {
		t.Errorf("unexpected user agent: %q", gotAgent)
	}
}

func TestGetHTTPErrorIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(TLSPolicy{}, "repotrace/test")
	_, err := client.Get(context.Background(), srv.URL+"/missing")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}

	var te *models.TraceError
	if !errors.As(err, &te) || te.Type != models.ErrFetch {
		t.Errorf("expected Fetch error, got %v", err)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGetTransportErrorIsFetchError(t *testing.T) {
	client := NewClient(TLSPolicy{}, "repotrace/test")
	_, err := client.Get(context.Background(), "http://127.0.0.1:1/repodata/repomd.xml")
	if err == nil {
		t.Fatal("expected error for unreachable host")
	}

	var te *models.TraceError
	if !errors.As(err, &te) || te.Type != models.ErrFetch {
		t.Errorf("expected Fetch error, got %v", err)
	}
}
