package deviceconfig

import (
	"strings"
	"testing"
)

func TestPaletteRoundTrip(t *testing.T) {
	for _, c := range Palette {
		t.Run(c.Key, func(t *testing.T) {
			hex := ColorForKey(c.Key)
			if hex != c.Hex {
				t.Errorf("ColorForKey(%q) = %s, want %s", c.Key, hex, c.Hex)
			}
			if got := KeyForColor(hex); got != c.Key {
				t.Errorf("KeyForColor(%s) = %q, want %q", hex, got, c.Key)
			}
			if got := KeyForColor(strings.ToLower(hex)); got != c.Key {
				t.Errorf("KeyForColor(%s) = %q, want %q", strings.ToLower(hex), got, c.Key)
			}
		})
	}
}

func TestKeyForColor_Unknown(t *testing.T) {
	if got := KeyForColor("#123456"); got != "" {
		t.Errorf("KeyForColor(#123456) = %q, want empty", got)
	}
	if got := KeyForColor(""); got != "" {
		t.Errorf("KeyForColor(\"\") = %q, want empty", got)
	}
}

func TestColorForKey_UnknownDefaultsToRed(t *testing.T) {
	if got := ColorForKey("chartreuse"); got != "#FF1414" {
		t.Errorf("ColorForKey(chartreuse) = %s, want #FF1414", got)
	}
}

func TestLabelForColor(t *testing.T) {
	if got := LabelForColor("#4b0082"); got != "Indigo" {
		t.Errorf("LabelForColor(#4b0082) = %s, want Indigo", got)
	}
	if got := LabelForColor("#ABCDEF"); got != "#ABCDEF" {
		t.Errorf("LabelForColor(#ABCDEF) = %s, want #ABCDEF", got)
	}
}

func TestResolveColor(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"green", "#00FF00", false},
		{"Violet", "#8B00FF", false},
		{"#abcdef", "#ABCDEF", false},
		{"#FF1414", "#FF1414", false},
		{"abcdef", "", true},
		{"#12345", "", true},
		{"magenta", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ResolveColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveColor(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestPaletteIndex(t *testing.T) {
	if got := PaletteIndex("red"); got != 0 {
		t.Errorf("PaletteIndex(red) = %d, want 0", got)
	}
	if got := PaletteIndex("violet"); got != len(Palette)-1 {
		t.Errorf("PaletteIndex(violet) = %d, want %d", got, len(Palette)-1)
	}
	if got := PaletteIndex(""); got != -1 {
		t.Errorf("PaletteIndex(\"\") = %d, want -1", got)
	}
}
