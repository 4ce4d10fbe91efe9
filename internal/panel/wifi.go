package panel

import (
	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// WiFiField identifies an input of the WiFi panel.
type WiFiField int

const (
	FieldSSID WiFiField = iota
	FieldPassword
)

// WiFiForm is the state of the WiFi panel.
type WiFiForm struct {
	Status

	SSID     string
	Password string

	Focus WiFiField
}

// NewWiFiForm returns an empty form.
func NewWiFiForm() WiFiForm {
	return WiFiForm{}
}

func (f WiFiForm) BeginLoad() WiFiForm {
	f.Status = f.Status.beginLoad()
	return f
}

// Loaded fills both fields only when the device reports an SSID and a
// password. An open network or an unconfigured device leaves the form as is.
func (f WiFiForm) Loaded(cfg deviceconfig.WiFiConfig, err error) WiFiForm {
	f.Status = f.Status.endLoad()
	if err != nil || cfg.SSID == "" || cfg.Password == "" {
		return f
	}
	f.SSID = cfg.SSID
	f.Password = cfg.Password
	return f
}

func (f WiFiForm) SetSSID(s string) WiFiForm {
	f.SSID = s
	return f
}

func (f WiFiForm) SetPassword(s string) WiFiForm {
	f.Password = s
	return f
}

// ToggleFocus switches between the SSID and password inputs.
func (f WiFiForm) ToggleFocus() WiFiForm {
	if f.Focus == FieldSSID {
		f.Focus = FieldPassword
	} else {
		f.Focus = FieldSSID
	}
	return f
}

// Config is the value a save sends: both fields as currently edited.
func (f WiFiForm) Config() deviceconfig.WiFiConfig {
	return deviceconfig.WiFiConfig{SSID: f.SSID, Password: f.Password}
}

func (f WiFiForm) BeginSave() WiFiForm {
	f.Status = f.Status.beginSave()
	return f
}

func (f WiFiForm) Saved(err error) WiFiForm {
	f.Status = f.Status.endSave()
	return f
}
