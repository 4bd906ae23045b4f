package application_test

import (
	"testing"

	"domovoice/internal/application"
	"domovoice/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		utterance string
		want      domain.Intent
	}{
		{"turn on the kitchen light", domain.IntentLight},
		{"Turn on the LIGHTS", domain.IntentLight},
		{"turn on the light in the living room", domain.IntentRoom},
		{"activate the movie scene", domain.IntentSceneGroup},
		{"switch the night mode on", domain.IntentSceneGroup},
		{"turn off the upstairs group light", domain.IntentSceneGroup},
		{"what is the temperature", domain.IntentThermostat},
		{"how is the humidity", domain.IntentThermostat},
		{"increase the thermostat", domain.IntentThermostat},
		{"what is the temperature in the room", domain.IntentRoom},
		{"turn on the lightsaber", domain.IntentUnrecognized},
		{"what time is it", domain.IntentUnrecognized},
		{"turn on the kitchen light.", domain.IntentLight},
		{"", domain.IntentUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			if got := application.Classify(tt.utterance); got != tt.want {
				t.Errorf("Classify(%q): got %s, want %s", tt.utterance, got, tt.want)
			}
		})
	}
}

func TestIsRelevant(t *testing.T) {
	tests := []struct {
		utterance string
		want      bool
	}{
		{"Turn on the kitchen light", true},
		{"what time is it", false},
		{"Activate the MOVIE SCENE", true},
		{"what is the temperature?", true},
		{"turn on the lightsaber", false},
		{"set party mode", true},
		{"bathroom fan off", false},
	}

	for _, tt := range tests {
		t.Run(tt.utterance, func(t *testing.T) {
			if got := application.IsRelevant(tt.utterance); got != tt.want {
				t.Errorf("IsRelevant(%q): got %v, want %v", tt.utterance, got, tt.want)
			}
		})
	}
}
