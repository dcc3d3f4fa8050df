package views

import (
	"embed"
	"io/fs"
	"net/http"
)

const StaticPrefix = "/static"

//go:embed static
var staticFS embed.FS

// StaticFiles serves the embedded stylesheet and script under StaticPrefix.
func StaticFiles() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
