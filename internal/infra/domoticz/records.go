package domoticz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"domovoice/internal/domain"
)

// number accepts both JSON numbers and numeric strings; Domoticz mixes them
// (SetPoint is sent as "18.0", Temp as 18.0).
type number struct {
	value float64
	set   bool
}

func (n *number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parsing number %q: %w", s, err)
	}
	n.value = v
	n.set = true
	return nil
}

func (n number) ptr() *float64 {
	if !n.set {
		return nil
	}
	v := n.value
	return &v
}

type deviceRecord struct {
	Idx          string `json:"idx"`
	Name         string `json:"Name"`
	Type         string `json:"Type"`
	SubType      string `json:"SubType"`
	SwitchType   string `json:"SwitchType"`
	Status       string `json:"Status"`
	Data         string `json:"Data"`
	HardwareName string `json:"HardwareName"`
	Temp         number `json:"Temp"`
	Humidity     number `json:"Humidity"`
	SetPoint     number `json:"SetPoint"`
}

// planMemberRecord is one row of getplandevices. idx numbers the membership
// row itself; devidx is the member, a device or (type 1) a scene.
type planMemberRecord struct {
	Idx    string `json:"idx"`
	DevIdx string `json:"devidx"`
	Name   string `json:"Name"`
	Type   number `json:"type"`
}

// sceneMemberRecord is one row of getscenedevices. ID numbers the membership
// row; DevID is the device.
type sceneMemberRecord struct {
	ID    string `json:"ID"`
	DevID string `json:"DevID"`
	Name  string `json:"Name"`
	Type  string `json:"Type"`
	IsOn  bool   `json:"IsOn"`
}

type sceneRecord struct {
	Idx    string `json:"idx"`
	Name   string `json:"Name"`
	Type   string `json:"Type"`
	Status string `json:"Status"`
}

type roomRecord struct {
	Idx  string `json:"idx"`
	Name string `json:"Name"`
}

type timerRecord struct {
	Idx    string `json:"idx"`
	Active string `json:"Active"`
	Type   int    `json:"Type"`
	Time   string `json:"Time"`
	Cmd    int    `json:"Cmd"`
}

type sunRecord struct {
	Sunrise    string `json:"Sunrise"`
	Sunset     string `json:"Sunset"`
	ServerTime string `json:"ServerTime"`
}

func decodeList[T any](resource string, raw json.RawMessage) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &domain.ProtocolError{Resource: resource, Status: "OK", Message: fmt.Sprintf("decoding result: %v", err)}
	}
	return out, nil
}

func requireFields(resource, idx, name string) error {
	switch {
	case idx == "":
		return &domain.ProtocolError{Resource: resource, Status: "OK", Message: "record without idx"}
	case name == "":
		return &domain.ProtocolError{Resource: resource, Status: "OK", Message: fmt.Sprintf("record %s without Name", idx)}
	}
	return nil
}

func (r deviceRecord) toDevice(resource string) (domain.Device, error) {
	if err := requireFields(resource, r.Idx, r.Name); err != nil {
		return domain.Device{}, err
	}
	return domain.Device{
		ID:       r.Idx,
		Name:     r.Name,
		Kind:     deviceKind(r),
		Type:     r.Type,
		Status:   r.Status,
		Hardware: r.HardwareName,
		Temp:     r.Temp.ptr(),
		Humidity: r.Humidity.ptr(),
	}, nil
}

func (r planMemberRecord) isScene() bool {
	return r.Type.set && r.Type.value == 1
}

// toDevice yields the member device. The plan listing carries no state, so
// Status is left empty.
func (r planMemberRecord) toDevice() (domain.Device, error) {
	id := r.DevIdx
	if id == "" {
		id = r.Idx
	}
	if err := requireFields("getplandevices", id, r.Name); err != nil {
		return domain.Device{}, err
	}
	return domain.Device{
		ID:   id,
		Name: r.Name,
		Kind: domain.DeviceKindGeneric,
	}, nil
}

func (r sceneMemberRecord) toDevice() (domain.Device, error) {
	id := r.DevID
	if id == "" {
		id = r.ID
	}
	if err := requireFields("getscenedevices", id, r.Name); err != nil {
		return domain.Device{}, err
	}
	status := "Off"
	if r.IsOn {
		status = "On"
	}
	return domain.Device{
		ID:     id,
		Name:   r.Name,
		Kind:   deviceKind(deviceRecord{Type: r.Type}),
		Type:   r.Type,
		Status: status,
	}, nil
}

func deviceKind(r deviceRecord) domain.DeviceKind {
	t := strings.ToLower(r.Type)
	switch {
	case strings.Contains(t, "light") || strings.Contains(t, "switch") || r.SwitchType != "":
		return domain.DeviceKindLight
	case strings.HasPrefix(t, "temp"), strings.Contains(t, "thermostat"):
		return domain.DeviceKindThermostat
	default:
		return domain.DeviceKindGeneric
	}
}

func (r sceneRecord) toScene() (domain.Scene, error) {
	if err := requireFields("scenes", r.Idx, r.Name); err != nil {
		return domain.Scene{}, err
	}
	return domain.Scene{
		ID:     r.Idx,
		Name:   r.Name,
		Type:   domain.SceneType(strings.ToLower(r.Type)),
		Status: r.Status,
	}, nil
}

func (r roomRecord) toRoom() (domain.Room, error) {
	if err := requireFields("plans", r.Idx, r.Name); err != nil {
		return domain.Room{}, err
	}
	return domain.Room{ID: r.Idx, Name: r.Name}, nil
}

func (r timerRecord) toTimer() domain.SceneTimer {
	return domain.SceneTimer{
		ID:        r.Idx,
		Active:    strings.EqualFold(r.Active, "true"),
		TimerType: r.Type,
		Time:      r.Time,
		Command:   timerCommand(r.Cmd),
	}
}

func timerCommand(cmd int) string {
	if cmd == 1 {
		return "Off"
	}
	return "On"
}
