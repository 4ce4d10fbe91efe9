package panel

import (
	"errors"
	"strings"
	"time"

	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// SpawnErrorDuration is how long a rejected spawn save keeps its inline error.
const SpawnErrorDuration = 2 * time.Second

// SpawnField identifies an input of the spawn panel.
type SpawnField int

const (
	FieldLatitude SpawnField = iota
	FieldLongitude
)

// SpawnForm is the state of the spawn point panel. Coordinates are kept as
// the text the user typed and only parsed on submit.
type SpawnForm struct {
	Status

	Latitude  string
	Longitude string

	Focus SpawnField

	// Error is the inline validation message, "" when hidden.
	Error string
	// ErrorSeq identifies the current error so a late expiry for an older
	// error does not hide a newer one.
	ErrorSeq uint64
}

// NewSpawnForm returns an empty form.
func NewSpawnForm() SpawnForm {
	return SpawnForm{}
}

func (f SpawnForm) BeginLoad() SpawnForm {
	f.Status = f.Status.beginLoad()
	return f
}

// Loaded fills the inputs with the stored spawn point. A device with no
// spawn point set leaves them empty.
func (f SpawnForm) Loaded(cfg deviceconfig.SpawnConfig, err error) SpawnForm {
	f.Status = f.Status.endLoad()
	if err != nil {
		return f
	}
	f.Latitude = deviceconfig.FormatCoordinate(cfg.Latitude)
	f.Longitude = deviceconfig.FormatCoordinate(cfg.Longitude)
	return f
}

// SetLatitude updates the latitude text and hides any validation error.
func (f SpawnForm) SetLatitude(s string) SpawnForm {
	f.Latitude = s
	f.Error = ""
	return f
}

// SetLongitude updates the longitude text and hides any validation error.
func (f SpawnForm) SetLongitude(s string) SpawnForm {
	f.Longitude = s
	f.Error = ""
	return f
}

// ToggleFocus switches between the latitude and longitude inputs.
func (f SpawnForm) ToggleFocus() SpawnForm {
	if f.Focus == FieldLatitude {
		f.Focus = FieldLongitude
	} else {
		f.Focus = FieldLatitude
	}
	return f
}

// CanSave reports whether both inputs hold something.
func (f SpawnForm) CanSave() bool {
	return strings.TrimSpace(f.Latitude) != "" && strings.TrimSpace(f.Longitude) != ""
}

// ShowingError reports whether the inline error is visible.
func (f SpawnForm) ShowingError() bool {
	return f.Error != ""
}

// Submit parses and range-checks both coordinates. On success it returns
// the value to save and ok=true. On failure the form shows the error under
// a new ErrorSeq and nothing must be sent.
func (f SpawnForm) Submit() (SpawnForm, deviceconfig.SpawnConfig, bool) {
	cfg, err := deviceconfig.ParseCoordinates(f.Latitude, f.Longitude)
	if err != nil {
		f.Error = validationMessage(err)
		f.ErrorSeq++
		return f, deviceconfig.SpawnConfig{}, false
	}
	f.Error = ""
	return f, cfg, true
}

func validationMessage(err error) string {
	var de *deviceconfig.DeviceError
	if errors.As(err, &de) {
		return de.Message
	}
	return err.Error()
}

// ExpireError hides the error raised under seq. An expiry for an older
// error is ignored.
func (f SpawnForm) ExpireError(seq uint64) SpawnForm {
	if seq == f.ErrorSeq {
		f.Error = ""
	}
	return f
}

func (f SpawnForm) BeginSave() SpawnForm {
	f.Status = f.Status.beginSave()
	return f
}

func (f SpawnForm) Saved(err error) SpawnForm {
	f.Status = f.Status.endSave()
	return f
}
