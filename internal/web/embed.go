// Package web serves the embedded static frontend. The single-page app talks
// to the JSON API under /api/ and is embedded via go:embed so the binary is
// self-contained.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:static
var staticFS embed.FS

// Handler returns an http.Handler serving the embedded frontend. The index
// page is served at / with no-cache so UI updates land on the next deploy;
// everything else falls through to the embedded file server.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || r.URL.Path == "/index.html" {
			w.Header().Set("Cache-Control", "no-cache")
		}
		fileServer.ServeHTTP(w, r)
	})
}
