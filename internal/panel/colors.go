package panel

import (
	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// ColorField identifies an editable row of the colors panel.
type ColorField int

const (
	FieldSouthColor ColorField = iota
	FieldSpawnColor
	FieldBrightness
)

// colorFieldCount is the number of ColorField values.
const colorFieldCount = 3

// BrightnessStep is how far one adjustment moves the brightness.
const BrightnessStep = 5

// ColorsForm is the state of the pointer colors panel.
type ColorsForm struct {
	Status

	SouthColor string
	SpawnColor string
	Brightness int

	Focus ColorField
}

// NewColorsForm returns a form holding the device defaults.
func NewColorsForm() ColorsForm {
	d := deviceconfig.DefaultPointerColorConfig()
	return ColorsForm{
		SouthColor: d.SouthColor,
		SpawnColor: d.SpawnColor,
		Brightness: d.Brightness,
	}
}

func (f ColorsForm) BeginLoad() ColorsForm {
	f.Status = f.Status.beginLoad()
	return f
}

// Loaded takes the fetched configuration. The color load hands back
// defaults for anything it could not read, so the value is used even when
// err is set.
func (f ColorsForm) Loaded(cfg deviceconfig.PointerColorConfig, err error) ColorsForm {
	f.Status = f.Status.endLoad()
	if cfg.SouthColor == "" && cfg.SpawnColor == "" && cfg.Brightness == 0 {
		return f
	}
	f.SouthColor = orDefaultColor(cfg.SouthColor)
	f.SpawnColor = orDefaultColor(cfg.SpawnColor)
	f.Brightness = deviceconfig.ClampBrightness(cfg.Brightness)
	return f
}

func orDefaultColor(c string) string {
	if c == "" {
		return deviceconfig.DefaultColor
	}
	return c
}

// SouthKey is the palette key shown for the south pointer, or "" when the
// stored color is not in the palette.
func (f ColorsForm) SouthKey() string {
	return deviceconfig.KeyForColor(f.SouthColor)
}

// SpawnKey is the palette key shown for the spawn pointer.
func (f ColorsForm) SpawnKey() string {
	return deviceconfig.KeyForColor(f.SpawnColor)
}

// SelectSouth sets the south color from a palette key. Unknown keys select red.
func (f ColorsForm) SelectSouth(key string) ColorsForm {
	f.SouthColor = deviceconfig.ColorForKey(key)
	return f
}

// SelectSpawn sets the spawn color from a palette key.
func (f ColorsForm) SelectSpawn(key string) ColorsForm {
	f.SpawnColor = deviceconfig.ColorForKey(key)
	return f
}

// SetBrightness clamps to the device range.
func (f ColorsForm) SetBrightness(v int) ColorsForm {
	f.Brightness = deviceconfig.ClampBrightness(v)
	return f
}

// FocusNext moves focus down one row, wrapping.
func (f ColorsForm) FocusNext() ColorsForm {
	f.Focus = (f.Focus + 1) % colorFieldCount
	return f
}

// FocusPrev moves focus up one row, wrapping.
func (f ColorsForm) FocusPrev() ColorsForm {
	f.Focus = (f.Focus + colorFieldCount - 1) % colorFieldCount
	return f
}

// Adjust changes the focused row by delta steps: the next or previous
// palette color, or BrightnessStep per step for brightness.
func (f ColorsForm) Adjust(delta int) ColorsForm {
	switch f.Focus {
	case FieldSouthColor:
		return f.SelectSouth(cyclePalette(f.SouthKey(), delta))
	case FieldSpawnColor:
		return f.SelectSpawn(cyclePalette(f.SpawnKey(), delta))
	case FieldBrightness:
		return f.SetBrightness(f.Brightness + delta*BrightnessStep)
	}
	return f
}

// cyclePalette steps through the palette. A color outside the palette
// starts from the first entry.
func cyclePalette(key string, delta int) string {
	n := len(deviceconfig.Palette)
	i := deviceconfig.PaletteIndex(key)
	if i < 0 {
		return deviceconfig.Palette[0].Key
	}
	i = ((i+delta)%n + n) % n
	return deviceconfig.Palette[i].Key
}

// Config is the value a save sends.
func (f ColorsForm) Config() deviceconfig.PointerColorConfig {
	return deviceconfig.PointerColorConfig{
		SouthColor: f.SouthColor,
		SpawnColor: f.SpawnColor,
		Brightness: f.Brightness,
	}
}

func (f ColorsForm) BeginSave() ColorsForm {
	f.Status = f.Status.beginSave()
	return f
}

// Saved clears the busy flag. Local values stay as edited either way.
func (f ColorsForm) Saved(err error) ColorsForm {
	f.Status = f.Status.endSave()
	return f
}
