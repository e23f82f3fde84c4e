// Package web embeds the chat widget page (dist/) and provides the HTTP
// handler that serves it under /web.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist
var distFS embed.FS

// Handler returns an http.Handler serving the embedded chat page. Mount it
// under /web.
func Handler() http.Handler {
	subFS, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return http.StripPrefix("/web", http.FileServer(http.FS(subFS)))
}
