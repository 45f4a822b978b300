// Package views embeds the page templates rendered by the handlers.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every rendered page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

func New() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("estadoLabel", func(estado bool) string {
		if estado {
			return "Aprobado"
		}
		return "En revisión"
	})
	return engine
}
