package domoticz

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"domovoice/internal/infra"
)

// Maintenance commands. They are exposed through the CLI only; utterance
// handling never reaches them.

func (c *Client) AddRoom(ctx context.Context, name string) error {
	if _, err := c.Command(ctx, "addplan", url.Values{"name": {name}}); err != nil {
		return fmt.Errorf("adding room %q: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteRoom(ctx context.Context, id string) error {
	if _, err := c.Command(ctx, "deleteplan", url.Values{"idx": {id}}); err != nil {
		return fmt.Errorf("deleting room %s: %w", id, err)
	}
	return nil
}

// AddScene creates a scene, or a group when group is true.
func (c *Client) AddScene(ctx context.Context, name string, group bool) error {
	sceneType := "0"
	if group {
		sceneType = "1"
	}
	if _, _, err := c.get(ctx, "addscene", "", url.Values{"name": {name}, "scenetype": {sceneType}}, infra.NoRetry()); err != nil {
		return fmt.Errorf("adding scene %q: %w", name, err)
	}
	return nil
}

func (c *Client) DeleteScene(ctx context.Context, id string) error {
	if _, _, err := c.get(ctx, "deletescene", "", url.Values{"idx": {id}}, infra.NoRetry()); err != nil {
		return fmt.Errorf("deleting scene %s: %w", id, err)
	}
	return nil
}

type SceneDevice struct {
	DeviceID string
	SceneID  string
	Group    bool
	Command  string
	Level    int
	Hue      int
	OnDelay  string
	OffDelay string
}

func (c *Client) AddSceneDevice(ctx context.Context, d SceneDevice) error {
	if d.Command == "" {
		d.Command = "on"
	}
	if d.Level == 0 {
		d.Level = 100
	}
	args := url.Values{
		"idx":      {d.SceneID},
		"isscene":  {strconv.FormatBool(!d.Group)},
		"devidx":   {d.DeviceID},
		"command":  {switchCommand(d.Command)},
		"level":    {strconv.Itoa(d.Level)},
		"hue":      {strconv.Itoa(d.Hue)},
		"ondelay":  {d.OnDelay},
		"offdelay": {d.OffDelay},
	}
	if _, err := c.Command(ctx, "addscenedevice", args); err != nil {
		return fmt.Errorf("adding device %s to scene %s: %w", d.DeviceID, d.SceneID, err)
	}
	return nil
}

// DeleteSceneDevice removes a scene membership row, identified by its own id.
func (c *Client) DeleteSceneDevice(ctx context.Context, id string) error {
	if _, err := c.Command(ctx, "deletescenedevice", url.Values{"idx": {id}}); err != nil {
		return fmt.Errorf("deleting scene device %s: %w", id, err)
	}
	return nil
}

type SceneTimerSpec struct {
	SceneID    string
	Active     bool
	TimerType  string
	Command    string
	Date       string
	Hour       string
	Minute     string
	Randomness string
	Level      string
	Days       string
}

func (c *Client) AddSceneTimer(ctx context.Context, t SceneTimerSpec) error {
	args := url.Values{
		"idx":        {t.SceneID},
		"active":     {strconv.FormatBool(t.Active)},
		"timertype":  {t.TimerType},
		"date":       {t.Date},
		"hour":       {t.Hour},
		"min":        {t.Minute},
		"randomness": {t.Randomness},
		"command":    {t.Command},
		"level":      {t.Level},
		"days":       {t.Days},
	}
	if _, err := c.Command(ctx, "addscenetimer", args); err != nil {
		return fmt.Errorf("adding timer to scene %s: %w", t.SceneID, err)
	}
	return nil
}
