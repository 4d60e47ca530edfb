package inventory

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
)

//go:embed static
var bundled embed.FS

const (
	indexFile = "index.html"
	styleFile = "style.css"

	notFoundBody = "404 - not found"
)

// Assets serves the UI files from a directory on disk, or from the copy
// compiled into the binary when no directory is configured.
type Assets struct {
	fsys fs.FS
}

func NewAssets(dir string) (*Assets, error) {
	if dir == "" {
		sub, err := fs.Sub(bundled, "static")
		if err != nil {
			return nil, err
		}
		return &Assets{fsys: sub}, nil
	}

	fi, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("static dir: %s is not a directory", dir)
	}
	return &Assets{fsys: os.DirFS(dir)}, nil
}

// File returns a handler writing the named asset. The file is read per
// request so edits on disk are picked up without a restart.
func (a *Assets) File(name string) http.HandlerFunc {
	ctype := mime.TypeByExtension(path.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}

	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fs.ReadFile(a.fsys, name)
		if err != nil {
			notFound(w, r)
			return
		}
		w.Header().Set("Content-Type", ctype)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	}
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte(notFoundBody))
}
