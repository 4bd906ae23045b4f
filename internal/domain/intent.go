package domain

import "context"

type Intent string

const (
	IntentRoom         Intent = "room"
	IntentSceneGroup   Intent = "scene_group"
	IntentLight        Intent = "light"
	IntentThermostat   Intent = "thermostat"
	IntentUnrecognized Intent = "unrecognized"
)

// Utterance is one command delivered by an input source. Exactly one of Text
// or Audio is set.
type Utterance struct {
	ID     string
	Source string
	Text   string
	Audio  []byte
	// Reply, when set, receives the response in addition to the configured speakers.
	Reply func(ctx context.Context, response string) error
}

func (u Utterance) IsAudio() bool {
	return u.Text == "" && len(u.Audio) > 0
}
