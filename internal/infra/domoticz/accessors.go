package domoticz

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"domovoice/internal/domain"
)

// DeviceQuery mirrors the filter/used/order arguments of type=devices.
type DeviceQuery struct {
	Filter string
	Used   bool
	Order  string
}

func DefaultDeviceQuery() DeviceQuery {
	return DeviceQuery{Filter: "all", Used: true, Order: "Name"}
}

// Rooms lists active room plans ordered by name.
func (c *Client) Rooms(ctx context.Context) ([]domain.Room, error) {
	raw, err := c.Request(ctx, "plans", url.Values{"order": {"name"}, "used": {"true"}})
	if err != nil {
		return nil, fmt.Errorf("fetching rooms: %w", err)
	}
	records, err := decodeList[roomRecord]("plans", raw)
	if err != nil {
		return nil, err
	}
	rooms := make([]domain.Room, 0, len(records))
	for _, r := range records {
		room, err := r.toRoom()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// Scenes lists scenes and groups.
func (c *Client) Scenes(ctx context.Context) ([]domain.Scene, error) {
	raw, err := c.Request(ctx, "scenes", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching scenes: %w", err)
	}
	records, err := decodeList[sceneRecord]("scenes", raw)
	if err != nil {
		return nil, err
	}
	scenes := make([]domain.Scene, 0, len(records))
	for _, r := range records {
		scene, err := r.toScene()
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

func (c *Client) Devices(ctx context.Context, q DeviceQuery) ([]domain.Device, error) {
	if q.Filter == "" {
		q.Filter = "all"
	}
	if q.Order == "" {
		q.Order = "Name"
	}
	raw, err := c.Request(ctx, "devices", deviceArgs(q))
	if err != nil {
		return nil, fmt.Errorf("fetching %s devices: %w", q.Filter, err)
	}
	return decodeDevices("devices", raw)
}

// Device fetches a single device by id. It returns nil when the server knows
// no such device.
func (c *Client) Device(ctx context.Context, id string) (*domain.Device, error) {
	raw, err := c.Request(ctx, "devices", url.Values{"rid": {id}})
	if err != nil {
		return nil, fmt.Errorf("fetching device %s: %w", id, err)
	}
	devices, err := decodeDevices("devices", raw)
	if err != nil || len(devices) == 0 {
		return nil, err
	}
	return &devices[0], nil
}

func (c *Client) Lights(ctx context.Context) ([]domain.Device, error) {
	q := DefaultDeviceQuery()
	q.Filter = "light"
	return c.Devices(ctx, q)
}

// RoomDevices lists the devices assigned to a room plan. Scenes placed in
// the plan are skipped. The listing has no device state: use Device for a
// current Status.
func (c *Client) RoomDevices(ctx context.Context, roomID string) ([]domain.Device, error) {
	raw, err := c.Command(ctx, "getplandevices", url.Values{"idx": {roomID}, "filter": {"all"}})
	if err != nil {
		return nil, fmt.Errorf("fetching devices of room %s: %w", roomID, err)
	}
	records, err := decodeList[planMemberRecord]("getplandevices", raw)
	if err != nil {
		return nil, err
	}
	devices := make([]domain.Device, 0, len(records))
	for _, r := range records {
		if r.isScene() {
			continue
		}
		d, err := r.toDevice()
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func (c *Client) SceneDevices(ctx context.Context, sceneID string) ([]domain.Device, error) {
	args := url.Values{"idx": {sceneID}, "isscene": {"true"}, "filter": {"all"}}
	raw, err := c.Command(ctx, "getscenedevices", args)
	if err != nil {
		return nil, fmt.Errorf("fetching devices of scene %s: %w", sceneID, err)
	}
	records, err := decodeList[sceneMemberRecord]("getscenedevices", raw)
	if err != nil {
		return nil, err
	}
	devices := make([]domain.Device, 0, len(records))
	for _, r := range records {
		d, err := r.toDevice()
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// Thermostats joins temperature sensors with utility setpoints that share a
// hardware name. When several setpoints share the label the first one wins.
func (c *Client) Thermostats(ctx context.Context) ([]domain.Thermostat, error) {
	q := DefaultDeviceQuery()
	q.Filter = "temp"
	raw, err := c.Request(ctx, "devices", deviceArgs(q))
	if err != nil {
		return nil, fmt.Errorf("fetching temp devices: %w", err)
	}
	sensors, err := decodeList[deviceRecord]("devices", raw)
	if err != nil {
		return nil, err
	}

	q.Filter = "utility"
	raw, err = c.Request(ctx, "devices", deviceArgs(q))
	if err != nil {
		return nil, fmt.Errorf("fetching utility devices: %w", err)
	}
	utilities, err := decodeList[deviceRecord]("devices", raw)
	if err != nil {
		return nil, err
	}

	thermostats := make([]domain.Thermostat, 0, len(sensors))
	for _, s := range sensors {
		dev, err := s.toDevice("devices")
		if err != nil {
			return nil, err
		}
		dev.Kind = domain.DeviceKindThermostat
		t := domain.Thermostat{Device: dev}
		for _, u := range utilities {
			if u.HardwareName != s.HardwareName || !u.SetPoint.set || u.Idx == "" {
				continue
			}
			t.Setpoint = &domain.Setpoint{ID: u.Idx, Value: u.SetPoint.value}
			break
		}
		thermostats = append(thermostats, t)
	}
	return thermostats, nil
}

func (c *Client) SceneTimers(ctx context.Context, sceneID string) ([]domain.SceneTimer, error) {
	raw, err := c.Request(ctx, "scenetimers", url.Values{"idx": {sceneID}})
	if err != nil {
		return nil, fmt.Errorf("fetching timers of scene %s: %w", sceneID, err)
	}
	records, err := decodeList[timerRecord]("scenetimers", raw)
	if err != nil {
		return nil, err
	}
	timers := make([]domain.SceneTimer, 0, len(records))
	for _, r := range records {
		timers = append(timers, r.toTimer())
	}
	return timers, nil
}

// SunRiseSet reads sunrise and sunset times. The server reports them next to
// status rather than under result, so the whole body is decoded.
func (c *Client) SunRiseSet(ctx context.Context) (*domain.SunTimes, error) {
	body, err := c.commandBody(ctx, "getSunRiseSet", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching sun times: %w", err)
	}
	var rec sunRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &domain.ProtocolError{Resource: "command:getSunRiseSet", Status: "OK", Message: err.Error()}
	}
	return &domain.SunTimes{Sunrise: rec.Sunrise, Sunset: rec.Sunset, ServerTime: rec.ServerTime}, nil
}

func (c *Client) SwitchLight(ctx context.Context, id, cmd string) error {
	_, err := c.Command(ctx, "switchlight", url.Values{"idx": {id}, "switchcmd": {switchCommand(cmd)}})
	if err != nil {
		return fmt.Errorf("switching light %s %s: %w", id, cmd, err)
	}
	return nil
}

// SetSetpoint writes a new target temperature, given as a decimal string.
func (c *Client) SetSetpoint(ctx context.Context, id, value string) error {
	_, err := c.Command(ctx, "setsetpoint", url.Values{"idx": {id}, "setpoint": {value}})
	if err != nil {
		return fmt.Errorf("setting setpoint %s to %s: %w", id, value, err)
	}
	return nil
}

func (c *Client) SwitchScene(ctx context.Context, id, cmd string) error {
	_, err := c.Command(ctx, "switchscene", url.Values{"idx": {id}, "switchcmd": {switchCommand(cmd)}})
	if err != nil {
		return fmt.Errorf("switching scene %s %s: %w", id, cmd, err)
	}
	return nil
}

func (c *Client) AddLogMessage(ctx context.Context, msg string) error {
	_, err := c.Command(ctx, "addlogmessage", url.Values{"message": {msg}})
	if err != nil {
		return fmt.Errorf("adding log message: %w", err)
	}
	return nil
}

func deviceArgs(q DeviceQuery) url.Values {
	return url.Values{
		"filter": {q.Filter},
		"used":   {fmt.Sprintf("%t", q.Used)},
		"order":  {q.Order},
	}
}

func decodeDevices(resource string, raw json.RawMessage) ([]domain.Device, error) {
	records, err := decodeList[deviceRecord](resource, raw)
	if err != nil {
		return nil, err
	}
	devices := make([]domain.Device, 0, len(records))
	for _, r := range records {
		d, err := r.toDevice(resource)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, nil
}

// switchCommand title-cases on/off/toggle the way the server expects.
func switchCommand(cmd string) string {
	cmd = strings.ToLower(strings.TrimSpace(cmd))
	if cmd == "" {
		return cmd
	}
	return strings.ToUpper(cmd[:1]) + cmd[1:]
}
