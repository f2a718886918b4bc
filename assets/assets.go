// Package assets embeds the web viewer served by the server. The committed
// index.html is generated from index.html.tpl, style.css and script.js by
// cmd/minify.
package assets

import _ "embed"

//go:embed index.html
var Index []byte

//go:embed favicon.svg
var Favicon []byte
