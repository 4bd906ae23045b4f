package application

import (
	"context"
	"fmt"
	"strings"

	"domovoice/internal/domain"
)

var sceneWords = []string{"on", "off", "activate", "deactivate"}

func (h *Handler) handleScenes(ctx context.Context, cmd command) (string, error) {
	scenes, err := h.ctl.Scenes(ctx)
	if err != nil {
		return "", err
	}
	if len(scenes) == 0 {
		return "There are no scenes or groups defined", nil
	}
	scene, ok := firstNamed(scenes, cmd.text, func(s domain.Scene) string { return s.Name })
	if !ok {
		return "That specific scene or group is not defined", nil
	}
	return h.switchScene(ctx, cmd, scene)
}

func (h *Handler) switchScene(ctx context.Context, cmd command, scene domain.Scene) (string, error) {
	name := strings.ToLower(scene.Name)
	kind := strings.ToLower(string(scene.Type))

	action, ok := firstMentioned(cmd.tokens, sceneWords...)
	if !ok {
		return fmt.Sprintf("I cannot execute that %s command", kind), nil
	}
	on := action == "on" || action == "activate"

	switch scene.Type {
	case domain.SceneTypeScene:
		if !on {
			return "I can only activate scenes.", nil
		}
		if err := h.ctl.SwitchScene(ctx, scene.ID, "on"); err != nil {
			return "", err
		}
		return fmt.Sprintf("Activating the %s %s", name, kind), nil

	case domain.SceneTypeGroup:
		state := "off"
		if on {
			state = "on"
		}
		if state == strings.ToLower(scene.Status) {
			return fmt.Sprintf("The %s %s is already %s", name, kind, state), nil
		}
		if err := h.ctl.SwitchScene(ctx, scene.ID, state); err != nil {
			return "", err
		}
		return fmt.Sprintf("Switching %s the %s %s", state, name, kind), nil

	default:
		return fmt.Sprintf("I cannot control %s types", kind), nil
	}
}
