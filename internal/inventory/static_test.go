package inventory_test

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"Inventory/internal/inventory"
)

func TestStatic_BundledAssets(t *testing.T) {
	ts := newInventoryTS(t)

	tests := []struct {
		path  string
		ctype string
		want  string
	}{
		{path: "/", ctype: "text/html", want: "<title>Inventory</title>"},
		{path: "/index.html", ctype: "text/html", want: "<title>Inventory</title>"},
		{path: "/style.css", ctype: "text/css", want: "border-collapse"},
	}

	for _, tt := range tests {
		resp, raw := do(t, http.MethodGet, ts.URL+tt.path, nil, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s status=%d", tt.path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, tt.ctype) {
			t.Fatalf("%s content-type=%q", tt.path, ct)
		}
		if !strings.Contains(string(raw), tt.want) {
			t.Fatalf("%s body missing %q", tt.path, tt.want)
		}
	}
}

func TestStatic_UnknownPath(t *testing.T) {
	ts := newInventoryTS(t)

	for _, p := range []string{"/missing.js", "/api", "/static/index.html"} {
		resp, raw := do(t, http.MethodGet, ts.URL+p, nil, "")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("%s status=%d", p, resp.StatusCode)
		}
		if string(raw) != "404 - not found" {
			t.Fatalf("%s body=%q", p, raw)
		}
	}
}

func TestStatic_FromDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>disk</p>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	assets, err := inventory.NewAssets(dir)
	if err != nil {
		t.Fatalf("NewAssets: %v", err)
	}

	s := &inventory.Server{Store: inventory.NewStore(), Assets: assets}
	ts := newServer(t, s, inventory.HTTPDeps{Log: zap.NewNop()})

	resp, raw := do(t, http.MethodGet, ts.URL+"/index.html", nil, "")
	if resp.StatusCode != http.StatusOK || string(raw) != "<p>disk</p>" {
		t.Fatalf("status=%d body=%q", resp.StatusCode, raw)
	}

	// style.css is not present in dir
	resp, raw = do(t, http.MethodGet, ts.URL+"/style.css", nil, "")
	if resp.StatusCode != http.StatusNotFound || string(raw) != "404 - not found" {
		t.Fatalf("status=%d body=%q", resp.StatusCode, raw)
	}
}

func TestNewAssets_BadDir(t *testing.T) {
	if _, err := inventory.NewAssets(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error for missing dir")
	}

	f := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := inventory.NewAssets(f); err == nil {
		t.Fatalf("expected error for non-directory")
	}
}
