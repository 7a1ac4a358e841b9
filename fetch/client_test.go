package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("payload"))
	}))
	defer srv.Close()

	c := NewClient()

	body, err := c.Get(context.Background(), srv.URL+"/doc")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if string(body) != "payload" {
		t.Errorf("Get() = %q, want payload", body)
	}

	if _, err := c.Get(context.Background(), srv.URL+"/missing"); err == nil {
		t.Error("Get(404) did not fail")
	} else if !strings.Contains(err.Error(), "404") {
		t.Errorf("Get(404) error %q does not mention status", err)
	}
}

func TestGetSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	c := NewClient(WithUserAgent("scanprep-test/1.0"))
	if _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatal(err)
	}
	if gotUA != "scanprep-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.jpg")

	c := NewClient()
	if err := c.Download(context.Background(), srv.URL, path); err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "image-bytes" {
		t.Errorf("downloaded %q", data)
	}

	// No .part leftovers.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}

func TestDownloadErrorLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.jpg")

	c := NewClient()
	if err := c.Download(context.Background(), srv.URL, path); err == nil {
		t.Fatal("Download(500) did not fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("failed download left a file behind")
	}
}

func TestGetContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient()
	if _, err := c.Get(ctx, srv.URL); err == nil {
		t.Error("Get() with cancelled context did not fail")
	}
}
