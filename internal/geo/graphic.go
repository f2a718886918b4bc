package geo

// Graphic is one renderable record: geometry, the symbol it is drawn with,
// the source attributes, and the popup text derived from them.
type Graphic struct {
	Geometry   Geometry   `json:"geometry" yaml:"geometry"`
	Symbol     Symbol     `json:"symbol" yaml:"symbol"`
	Attributes Properties `json:"attributes" yaml:"attributes"`
	Popup      Popup      `json:"popup" yaml:"popup"`
}

// GraphicOf assembles the record for a converted geometry and its source
// attributes, applying the fixed symbol mapping and popup rules.
func GraphicOf(g Geometry, props Properties) Graphic {
	return Graphic{
		Geometry:   g,
		Symbol:     SymbolFor(g.Type),
		Attributes: props,
		Popup:      PopupFor(props),
	}
}
