package geo

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Fallbacks used when a feature has no usable attributes.
const (
	DefaultPopupTitle   = "Feature"
	DefaultPopupContent = "No properties"
)

// Popup is the title and body text shown when a graphic is clicked.
type Popup struct {
	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
}

// PopupFor builds popup text from feature attributes. The title is the
// "name" attribute, then "title", then the fixed fallback. The content is
// one "key: value" line per attribute in source order. Features without
// attributes get the fixed placeholder instead.
func PopupFor(props Properties) Popup {
	if props.Len() == 0 {
		return Popup{Title: DefaultPopupTitle, Content: DefaultPopupContent}
	}

	title := DefaultPopupTitle
	if v, ok := props.Get("name"); ok {
		title = formatValue(v)
	} else if v, ok := props.Get("title"); ok {
		title = formatValue(v)
	}

	lines := make([]string, 0, props.Len())
	for _, key := range props.Keys() {
		v, _ := props.Get(key)
		lines = append(lines, key+": "+formatValue(v))
	}

	return Popup{Title: title, Content: strings.Join(lines, "\n")}
}

// formatValue renders a decoded JSON value as display text. Scalars print
// bare, nested objects and arrays print as compact JSON.
func formatValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
