package deviceconfig

import "strings"

// PaletteColor is one entry of the fixed pointer color palette.
type PaletteColor struct {
	Key   string // stable identifier, e.g. "red"
	Label string // display name, e.g. "Red"
	Hex   string // "#RRGGBB"
}

// Palette is the fixed, ordered set of pointer colors the firmware ships with.
var Palette = []PaletteColor{
	{Key: "red", Label: "Red", Hex: "#FF1414"},
	{Key: "orange", Label: "Orange", Hex: "#FF7F00"},
	{Key: "yellow", Label: "Yellow", Hex: "#FFFF00"},
	{Key: "green", Label: "Green", Hex: "#00FF00"},
	{Key: "blue", Label: "Blue", Hex: "#0000FF"},
	{Key: "indigo", Label: "Indigo", Hex: "#4B0082"},
	{Key: "violet", Label: "Violet", Hex: "#8B00FF"},
}

// KeyForColor returns the palette key whose hex matches color, ignoring case.
// An unknown color yields "" (no selection).
func KeyForColor(color string) string {
	for _, c := range Palette {
		if strings.EqualFold(c.Hex, color) {
			return c.Key
		}
	}
	return ""
}

// ColorForKey returns the hex for a palette key. Unknown keys fall back to red.
func ColorForKey(key string) string {
	if c, ok := LookupPalette(key); ok {
		return c.Hex
	}
	return Palette[0].Hex
}

// LookupPalette finds a palette entry by key or label, ignoring case.
func LookupPalette(key string) (PaletteColor, bool) {
	for _, c := range Palette {
		if strings.EqualFold(c.Key, key) || strings.EqualFold(c.Label, key) {
			return c, true
		}
	}
	return PaletteColor{}, false
}

// LabelForColor returns the display name for a hex color, or the hex itself
// when it is not in the palette.
func LabelForColor(color string) string {
	if c, ok := LookupPalette(KeyForColor(color)); ok {
		return c.Label
	}
	return color
}

// ResolveColor accepts a palette key, label or "#RRGGBB" value and returns the hex.
func ResolveColor(value string) (string, error) {
	if c, ok := LookupPalette(value); ok {
		return c.Hex, nil
	}
	if err := ValidateHexColor(value); err != nil {
		return "", NewValidationError("color must be a palette name (red, orange, yellow, green, blue, indigo, violet) or #RRGGBB, got '" + value + "'")
	}
	return strings.ToUpper(value), nil
}

// PaletteIndex returns the position of key in Palette, or -1.
func PaletteIndex(key string) int {
	for i, c := range Palette {
		if c.Key == key {
			return i
		}
	}
	return -1
}
