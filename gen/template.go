package gen

import (
	"embed"
	"fmt"
	"text/template"

	"github.com/gardenlabs/grasshopper/graph"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var moduleTemplate = template.Must(
	template.New("gen").Funcs(template.FuncMap{
		// golist renders a string slice as a Go composite literal.
		"golist": func(v []string) string { return fmt.Sprintf("%#v", v) },
	}).ParseFS(templatesFS, "templates/*.tmpl"),
)

type templateData struct {
	Config  Config
	Version string
	// Runtime is the import path of the shared runtime package the artifact
	// links against.
	Runtime string
	Schema  *graph.Schema
	Nodes   []accessor
	Edges   []accessor
}
