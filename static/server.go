// Package static serves the embedded frontend build. The dist directory is
// populated by the web build; without it only the placeholder index ships.
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed dist
var dist embed.FS

var assetSuffixes = []string{".js", ".css", ".svg", ".ico", ".png", ".jpg", ".woff2", ".txt", ".map"}

func isAsset(path string) bool {
	if strings.HasPrefix(path, "/assets/") {
		return true
	}
	for _, s := range assetSuffixes {
		if strings.HasSuffix(path, s) {
			return true
		}
	}
	return false
}

// Handler serves assets by extension and falls back to index.html for app
// routes, so client-side routing survives a hard refresh.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isAsset(r.URL.Path) {
			fileServer.ServeHTTP(w, r)
			return
		}
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})
}
