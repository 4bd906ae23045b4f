package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"domovoice/internal/domain"
)

type Config struct {
	Domoticz DomoticzConfig `yaml:"domoticz"`
	Input    InputConfig    `yaml:"input"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Pushover PushoverConfig `yaml:"pushover"`
	Speaker  SpeakerConfig  `yaml:"speaker"`
	Log      LogConfig      `yaml:"log"`

	path string
}

type DomoticzConfig struct {
	Server      string `yaml:"server"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	Timeout     string `yaml:"timeout"`
	LogCommands bool   `yaml:"log_commands"`
}

type InputConfig struct {
	Source     string `yaml:"source"`
	HTTPAddr   string `yaml:"http_addr"`
	FileDir    string `yaml:"file_dir"`
	AuthToken  string `yaml:"auth_token"`
	SampleRate int    `yaml:"sample_rate"`
	RateLimit  int    `yaml:"rate_limit"`
}

type OpenAIConfig struct {
	APIKey   string `yaml:"api_key"`
	Language string `yaml:"language"`
}

type MQTTConfig struct {
	Broker         string `yaml:"broker"`
	ClientID       string `yaml:"client_id"`
	UtteranceTopic string `yaml:"utterance_topic"`
	ResponseTopic  string `yaml:"response_topic"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
}

// SpeakerConfig lists where responses go: console, pushover, mqtt.
type SpeakerConfig struct {
	Outputs []string `yaml:"outputs"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	cfg.path = path
	return cfg, nil
}

func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Domoticz.Timeout == "" {
		c.Domoticz.Timeout = "10s"
	}
	if c.Input.Source == "" {
		c.Input.Source = "http"
	}
	if c.Input.HTTPAddr == "" {
		c.Input.HTTPAddr = ":8080"
	}
	if c.Input.FileDir == "" {
		c.Input.FileDir = "./inbox"
	}
	if c.Input.SampleRate == 0 {
		c.Input.SampleRate = 16000
	}
	if c.Input.RateLimit == 0 {
		c.Input.RateLimit = 30
	}
	if c.OpenAI.Language == "" {
		c.OpenAI.Language = "en"
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = "domovoice"
	}
	if c.MQTT.UtteranceTopic == "" {
		c.MQTT.UtteranceTopic = "domovoice/utterance"
	}
	if c.MQTT.ResponseTopic == "" {
		c.MQTT.ResponseTopic = "domovoice/response"
	}
	if len(c.Speaker.Outputs) == 0 {
		c.Speaker.Outputs = []string{"console"}
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

var (
	validSources = map[string]bool{"http": true, "file": true, "mqtt": true, "microphone": true}
	validOutputs = map[string]bool{"console": true, "pushover": true, "mqtt": true}
)

// validate checks the parts of the file that are fixed at startup. Server
// credentials are checked per command instead.
func (c *Config) validate() error {
	if !validSources[c.Input.Source] {
		return fmt.Errorf("invalid input.source %q", c.Input.Source)
	}
	needsBroker := c.Input.Source == "mqtt"
	for _, out := range c.Speaker.Outputs {
		if !validOutputs[out] {
			return fmt.Errorf("invalid speaker output %q", out)
		}
		if out == "mqtt" {
			needsBroker = true
		}
	}
	if needsBroker && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required when mqtt is used")
	}
	if _, err := time.ParseDuration(c.Domoticz.Timeout); err != nil {
		return fmt.Errorf("invalid domoticz.timeout: %w", err)
	}
	return nil
}

// UsesOutput reports whether responses should go to the named speaker.
func (c *Config) UsesOutput(name string) bool {
	for _, out := range c.Speaker.Outputs {
		if out == name {
			return true
		}
	}
	return false
}

// DomoticzTimeout parses domoticz.timeout, falling back to ten seconds.
func (c *Config) DomoticzTimeout() time.Duration {
	d, err := time.ParseDuration(c.Domoticz.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Credentials re-reads the config file so every command sees the current
// server credentials. A config built in memory answers from its own fields.
func (c *Config) Credentials(_ context.Context) (domain.Credentials, error) {
	d := c.Domoticz
	if c.path != "" {
		fresh, err := read(c.path)
		if err != nil {
			return domain.Credentials{}, &domain.ConfigurationError{Fields: []string{"domoticz"}, Err: err}
		}
		d = fresh.Domoticz
	}
	creds := domain.Credentials{Server: d.Server, Username: d.Username, Password: d.Password}
	if err := creds.Validate(); err != nil {
		return domain.Credentials{}, err
	}
	return creds, nil
}
