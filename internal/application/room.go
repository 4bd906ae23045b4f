package application

import (
	"context"
	"fmt"
	"strings"

	"domovoice/internal/domain"
)

func (h *Handler) handleRooms(ctx context.Context, cmd command) (string, error) {
	rooms, err := h.ctl.Rooms(ctx)
	if err != nil {
		return "", err
	}
	if len(rooms) == 0 {
		return "There are no rooms defined.", nil
	}
	room, ok := firstNamed(rooms, cmd.text, func(r domain.Room) string { return r.Name })
	if !ok {
		return "That specific room is not defined.", nil
	}
	return h.switchRoomDevice(ctx, cmd, room)
}

func (h *Handler) switchRoomDevice(ctx context.Context, cmd command, room domain.Room) (string, error) {
	roomName := strings.ToLower(room.Name)

	devices, err := h.ctl.RoomDevices(ctx, room.ID)
	if err != nil {
		return "", err
	}
	member, ok := firstNamed(devices, cmd.text, deviceName)
	if !ok {
		return fmt.Sprintf("That device is not defined in the %s", roomName), nil
	}
	// Plan listings carry no state.
	device, err := h.ctl.Device(ctx, member.ID)
	if err != nil {
		return "", err
	}
	if device == nil {
		return fmt.Sprintf("That device is not defined in the %s", roomName), nil
	}

	devName := strings.ToLower(device.Name)
	action, ok := firstMentioned(cmd.tokens, switchWords...)
	if !ok {
		return fmt.Sprintf("That command is undefined for device %s in the %s", devName, roomName), nil
	}
	if action == strings.ToLower(device.Status) {
		return fmt.Sprintf("The %s device in the %s is already turned %s", devName, roomName, action), nil
	}
	if err := h.ctl.SwitchLight(ctx, device.ID, action); err != nil {
		return "", err
	}
	return fmt.Sprintf("Turning %s the %s device in the %s", action, devName, roomName), nil
}
