package application_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"domovoice/internal/domain"
)

type write struct {
	op  string
	id  string
	arg string
}

type fakeController struct {
	mu sync.Mutex

	rooms       []domain.Room
	roomDevices map[string][]domain.Device
	scenes      []domain.Scene
	lights      []domain.Device
	thermostats []domain.Thermostat
	// statuses overrides the Status returned by Device.
	statuses    map[string]string

	readErr  error
	writeErr error
	writes   []write
}

func (f *fakeController) Rooms(_ context.Context) ([]domain.Room, error) {
	return f.rooms, f.readErr
}

func (f *fakeController) RoomDevices(_ context.Context, roomID string) ([]domain.Device, error) {
	return f.roomDevices[roomID], f.readErr
}

func (f *fakeController) Device(_ context.Context, id string) (*domain.Device, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	candidates := append([]domain.Device(nil), f.lights...)
	for _, devices := range f.roomDevices {
		candidates = append(candidates, devices...)
	}
	for _, d := range candidates {
		if d.ID != id {
			continue
		}
		if status, ok := f.statuses[id]; ok {
			d.Status = status
		}
		return &d, nil
	}
	return nil, nil
}

func (f *fakeController) Scenes(_ context.Context) ([]domain.Scene, error) {
	return f.scenes, f.readErr
}

func (f *fakeController) Lights(_ context.Context) ([]domain.Device, error) {
	return f.lights, f.readErr
}

func (f *fakeController) Thermostats(_ context.Context) ([]domain.Thermostat, error) {
	return f.thermostats, f.readErr
}

func (f *fakeController) SwitchLight(_ context.Context, id, cmd string) error {
	return f.record("switchlight", id, cmd)
}

func (f *fakeController) SetSetpoint(_ context.Context, id, value string) error {
	return f.record("setsetpoint", id, value)
}

func (f *fakeController) SwitchScene(_ context.Context, id, cmd string) error {
	return f.record("switchscene", id, cmd)
}

func (f *fakeController) record(op, id, arg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, write{op: op, id: id, arg: arg})
	return nil
}

func (f *fakeController) recorded() []write {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]write(nil), f.writes...)
}

type recordingSpeaker struct {
	mu    sync.Mutex
	said  []string
	calls chan string
}

func newRecordingSpeaker() *recordingSpeaker {
	return &recordingSpeaker{calls: make(chan string, 16)}
}

func (r *recordingSpeaker) Say(_ context.Context, text string) error {
	r.mu.Lock()
	r.said = append(r.said, text)
	r.mu.Unlock()
	r.calls <- text
	return nil
}

func (r *recordingSpeaker) lines() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.said...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func float(v float64) *float64 { return &v }
