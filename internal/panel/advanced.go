package panel

import (
	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// AdvancedField identifies a row of the experimental features dialog.
type AdvancedField int

const (
	FieldServerMode AdvancedField = iota
	FieldModel
)

// AdvancedForm is the state of the experimental features dialog.
//
// The form outlives the dialog: closing it without saving keeps the edits,
// and reopening shows them again.
type AdvancedForm struct {
	Status

	ServerMode bool
	Model      deviceconfig.DeviceModel

	Open  bool
	Focus AdvancedField
}

// NewAdvancedForm returns a closed dialog holding the device defaults.
func NewAdvancedForm() AdvancedForm {
	d := deviceconfig.DefaultAdvancedConfig()
	return AdvancedForm{ServerMode: d.ServerMode, Model: d.Model}
}

func (f AdvancedForm) BeginLoad() AdvancedForm {
	f.Status = f.Status.beginLoad()
	return f
}

func (f AdvancedForm) Loaded(cfg deviceconfig.AdvancedConfig, err error) AdvancedForm {
	f.Status = f.Status.endLoad()
	if err != nil {
		return f
	}
	f.ServerMode = cfg.ServerMode
	f.Model = cfg.Model
	return f
}

// OpenDialog shows the dialog with focus on the first row.
func (f AdvancedForm) OpenDialog() AdvancedForm {
	f.Open = true
	f.Focus = FieldServerMode
	return f
}

// Close hides the dialog without saving or resetting anything.
func (f AdvancedForm) Close() AdvancedForm {
	f.Open = false
	return f
}

func (f AdvancedForm) ToggleFocus() AdvancedForm {
	if f.Focus == FieldServerMode {
		f.Focus = FieldModel
	} else {
		f.Focus = FieldServerMode
	}
	return f
}

func (f AdvancedForm) ToggleServerMode() AdvancedForm {
	f.ServerMode = !f.ServerMode
	return f
}

func (f AdvancedForm) SetModel(m deviceconfig.DeviceModel) AdvancedForm {
	f.Model = m
	return f
}

// ToggleModel flips between lite and gps.
func (f AdvancedForm) ToggleModel() AdvancedForm {
	if f.Model == deviceconfig.ModelLite {
		f.Model = deviceconfig.ModelGPS
	} else {
		f.Model = deviceconfig.ModelLite
	}
	return f
}

// ToggleFocused flips whichever row has focus.
func (f AdvancedForm) ToggleFocused() AdvancedForm {
	if f.Focus == FieldServerMode {
		return f.ToggleServerMode()
	}
	return f.ToggleModel()
}

// Config is the value a save sends.
func (f AdvancedForm) Config() deviceconfig.AdvancedConfig {
	return deviceconfig.AdvancedConfig{ServerMode: f.ServerMode, Model: f.Model}
}

// BeginSave marks the save in flight and closes the dialog.
func (f AdvancedForm) BeginSave() AdvancedForm {
	f.Status = f.Status.beginSave()
	f.Open = false
	return f
}

func (f AdvancedForm) Saved(err error) AdvancedForm {
	f.Status = f.Status.endSave()
	return f
}
