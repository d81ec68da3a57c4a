// Package web serves the embedded single-page dashboard. The UI is a
// static HTML file compiled into the binary; it talks to the JSON API
// under /api/v1.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// Handler returns the dashboard file server rooted at /.
func Handler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// embed guarantees the directory exists; reaching this means a
		// broken build.
		panic(err)
	}
	return http.FileServerFS(sub)
}
