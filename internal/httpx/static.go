package httpx

import (
	"net/http"
	"path/filepath"
	"strings"
)

// spaHandler serves the static frontend from dir. Paths that look like
// files (they contain an extension) are served directly; everything else
// falls back to index.html so client-side routes like /?table=3 work on a
// hard refresh.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		if strings.Contains(filepath.Base(r.URL.Path), ".") {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	}
}
