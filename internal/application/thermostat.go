package application

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"domovoice/internal/domain"
)

const setpointStep = 1.0

func (h *Handler) handleThermostats(ctx context.Context, cmd command) (string, error) {
	thermostats, err := h.ctl.Thermostats(ctx)
	if err != nil {
		return "", err
	}
	if len(thermostats) == 0 {
		return "There are no thermostats defined", nil
	}
	// Most thermostat commands do not name one ("what is the temperature"),
	// so the first thermostat answers unless another is named.
	t, ok := firstNamed(thermostats, cmd.text, func(t domain.Thermostat) string { return t.Name })
	if !ok {
		t = thermostats[0]
	}
	return h.adjustThermostat(ctx, cmd, t)
}

func (h *Handler) adjustThermostat(ctx context.Context, cmd command, t domain.Thermostat) (string, error) {
	switch {
	case mentions(cmd.tokens, "up", "increase"):
		return h.stepSetpoint(ctx, t, setpointStep, "Increasing")
	case mentions(cmd.tokens, "down", "decrease"):
		return h.stepSetpoint(ctx, t, -setpointStep, "Decreasing")
	case mentions(cmd.tokens, "what", "is", "temperature", "humidity"):
		return describeClimate(t), nil
	default:
		return "I did not understand your thermostat command.", nil
	}
}

func (h *Handler) stepSetpoint(ctx context.Context, t domain.Thermostat, delta float64, verb string) (string, error) {
	if !t.Adjustable() {
		return fmt.Sprintf("The %s thermostat has no setpoint I can change.", strings.ToLower(t.Name)), nil
	}
	value := formatDecimal(t.Setpoint.Value + delta)
	if err := h.ctl.SetSetpoint(ctx, t.Setpoint.ID, value); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s the temperature to %s.", verb, value), nil
}

func describeClimate(t domain.Thermostat) string {
	if t.Temp == nil {
		return fmt.Sprintf("The %s thermostat does not report a temperature.", strings.ToLower(t.Name))
	}
	temp := formatDecimal(math.Round(*t.Temp*10) / 10)
	if t.Humidity == nil {
		return fmt.Sprintf("Inside the house, it is %s degrees celsius.", temp)
	}
	humidity := strconv.FormatFloat(*t.Humidity, 'f', -1, 64)
	return fmt.Sprintf("Inside the house, it is %s degrees celsius and %s percent humidity.", temp, humidity)
}

// formatDecimal always keeps one fractional digit: 19 -> "19.0", 19.25 -> "19.25".
func formatDecimal(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
