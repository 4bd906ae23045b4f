package domain

type DeviceKind string

const (
	DeviceKindLight      DeviceKind = "light"
	DeviceKindThermostat DeviceKind = "thermostat"
	DeviceKindGeneric    DeviceKind = "generic"
)

// Device is a read-through projection of a server device record.
type Device struct {
	ID       string
	Name     string
	Kind     DeviceKind
	Type     string
	Status   string
	Hardware string
	Temp     *float64
	Humidity *float64
}

// Setpoint is the writable target temperature of a thermostat.
type Setpoint struct {
	ID    string
	Value float64
}

// Thermostat is a temperature sensor joined with the setpoint record that
// shares its hardware label. Without a setpoint it can only be queried.
type Thermostat struct {
	Device
	Setpoint *Setpoint
}

func (t Thermostat) Adjustable() bool {
	return t.Setpoint != nil
}

type SceneType string

const (
	SceneTypeScene SceneType = "scene"
	SceneTypeGroup SceneType = "group"
)

// Scene is either a scene (activate only) or a group (uniform on/off state).
type Scene struct {
	ID     string
	Name   string
	Type   SceneType
	Status string
}

type Room struct {
	ID   string
	Name string
}

// SunTimes is the subset of getSunRiseSet the CLI reports.
type SunTimes struct {
	Sunrise    string
	Sunset     string
	ServerTime string
}

type SceneTimer struct {
	ID        string
	Active    bool
	TimerType int
	Time      string
	Command   string
}
