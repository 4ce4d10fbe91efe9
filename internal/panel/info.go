package panel

import (
	"github.com/mcompass/compass-cfg/internal/deviceconfig"
)

// InfoRow is one label/value line of the info panel.
type InfoRow struct {
	Label string
	Value string
}

// InfoForm is the state of the read-only device info panel.
type InfoForm struct {
	Status

	Info deviceconfig.DeviceInfo
}

// NewInfoForm returns a form with every field Unknown.
func NewInfoForm() InfoForm {
	return InfoForm{Info: deviceconfig.DefaultDeviceInfo()}
}

func (f InfoForm) BeginLoad() InfoForm {
	f.Status = f.Status.beginLoad()
	return f
}

func (f InfoForm) Loaded(info deviceconfig.DeviceInfo, err error) InfoForm {
	f.Status = f.Status.endLoad()
	if err == nil {
		f.Info = info
	}
	return f
}

// Rows lists the fields in display order.
func (f InfoForm) Rows() []InfoRow {
	i := f.Info
	return []InfoRow{
		{"Build Version", i.BuildVersion},
		{"Git Branch", i.GitBranch},
		{"Git Commit", i.GitCommit},
		{"Build Time", i.BuildTime},
		{"Build Date", i.BuildDate},
		{"GPS", deviceconfig.StatusLabel(i.GPSStatus)},
		{"Sensor", deviceconfig.StatusLabel(i.SensorStatus)},
	}
}
