package application

import (
	"context"

	"domovoice/internal/domain"
)

// Controller is the slice of the Domoticz API the command handlers use.
type Controller interface {
	Rooms(ctx context.Context) ([]domain.Room, error)
	RoomDevices(ctx context.Context, roomID string) ([]domain.Device, error)
	Device(ctx context.Context, id string) (*domain.Device, error)
	Scenes(ctx context.Context) ([]domain.Scene, error)
	Lights(ctx context.Context) ([]domain.Device, error)
	Thermostats(ctx context.Context) ([]domain.Thermostat, error)

	SwitchLight(ctx context.Context, id, cmd string) error
	SetSetpoint(ctx context.Context, id, value string) error
	SwitchScene(ctx context.Context, id, cmd string) error
}

// Journal records handled commands on the server side.
type Journal interface {
	AddLogMessage(ctx context.Context, msg string) error
}
