package render

import "strings"

// ColorPair is the fill and border color of an item.
type ColorPair struct {
	Background string `json:"background"`
	Border     string `json:"border"`
}

// Palette assigns colors from the location alone: the venue gets its own
// pair, every other location the default pair.
type Palette struct {
	Venue   string    `json:"venue"`
	Special ColorPair `json:"special"`
	Default ColorPair `json:"default"`
	Text    string    `json:"text"`
}

// DefaultPalette is the stock palette with "Aula" as the special venue.
func DefaultPalette() Palette {
	return Palette{
		Venue:   "Aula",
		Special: ColorPair{Background: "#4ade80", Border: "#22c55e"},
		Default: ColorPair{Background: "#60a5fa", Border: "#3b82f6"},
		Text:    "#000000",
	}
}

// ColorsFor returns the color pair for a location.
func (p Palette) ColorsFor(location string) ColorPair {
	if p.Venue != "" && strings.EqualFold(location, p.Venue) {
		return p.Special
	}
	return p.Default
}
