package application

import (
	"context"
	"fmt"
	"strings"

	"domovoice/internal/domain"
)

var switchWords = []string{"on", "off", "toggle"}

func deviceName(d domain.Device) string { return d.Name }

func (h *Handler) handleLights(ctx context.Context, cmd command) (string, error) {
	lights, err := h.ctl.Lights(ctx)
	if err != nil {
		return "", err
	}
	if len(lights) == 0 {
		return "There are no lights defined", nil
	}
	light, ok := firstNamed(lights, cmd.text, deviceName)
	if !ok {
		return "That specific light is not defined", nil
	}
	return h.switchLight(ctx, cmd, light)
}

func (h *Handler) switchLight(ctx context.Context, cmd command, light domain.Device) (string, error) {
	name := strings.ToLower(light.Name)
	action, ok := firstMentioned(cmd.tokens, switchWords...)
	if !ok {
		return "I cannot execute that light command", nil
	}
	if action == strings.ToLower(light.Status) {
		return fmt.Sprintf("The %s light is already %s", name, action), nil
	}
	if err := h.ctl.SwitchLight(ctx, light.ID, action); err != nil {
		return "", err
	}
	if action == "toggle" {
		return fmt.Sprintf("Toggling the %s light", name), nil
	}
	return fmt.Sprintf("Turning %s light %s", name, action), nil
}
