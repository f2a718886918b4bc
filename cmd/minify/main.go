// Regenerates assets/index.html: minifies the CSS, JS and SVG sources and
// inlines them into the page template. Run after changing any asset source.
package main

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/template"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"
)

type PageData struct {
	CSS string
	JS  string
	SVG string
}

func main() {
	dir := "assets"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/javascript", js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)

	data := PageData{
		CSS: minifyFile(m, "text/css", filepath.Join(dir, "style.css")),
		JS:  minifyFile(m, "text/javascript", filepath.Join(dir, "script.js")),
		SVG: minifyFile(m, "image/svg+xml", filepath.Join(dir, "favicon.svg")),
	}

	tplRaw, err := os.ReadFile(filepath.Join(dir, "index.html.tpl"))
	if err != nil {
		log.Fatal("error read template:", err)
	}
	tmpl, err := template.New("index").Parse(string(tplRaw))
	if err != nil {
		log.Fatal("error parse template:", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Fatal("error execute template:", err)
	}

	page, err := m.String("text/html", buf.String())
	if err != nil {
		log.Fatal("error minify HTML:", err)
	}

	out := filepath.Join(dir, "index.html")
	if err := os.WriteFile(out, []byte(page), 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Println("minify done:", out)
}

func minifyFile(m *minify.M, mediatype, path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("error read %s: %v", path, err)
	}
	min, err := m.String(mediatype, string(raw))
	if err != nil {
		log.Fatalf("error minify %s: %v", path, err)
	}
	return min
}
