package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigurationError reports missing server credentials, or a configuration
// that could not be read at all (Err).
type ConfigurationError struct {
	Fields []string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("domoticz configuration unavailable: %v", e.Err)
	}
	return fmt.Sprintf("domoticz configuration incomplete: missing %s", strings.Join(e.Fields, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when the server answers with a non-OK status or
// a record lacks a required field.
type ProtocolError struct {
	Resource string
	Status   string
	Message  string
}

func (e *ProtocolError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("domoticz %s: status %q", e.Resource, e.Status)
	}
	return fmt.Sprintf("domoticz %s: status %q: %s", e.Resource, e.Status, e.Message)
}

// TransportError wraps network-level failures and unexpected HTTP statuses.
type TransportError struct {
	Resource   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("domoticz %s: http %d: %v", e.Resource, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("domoticz %s: %v", e.Resource, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsServerFailure reports whether err came from talking to the server, as
// opposed to local configuration.
func IsServerFailure(err error) bool {
	var pe *ProtocolError
	var te *TransportError
	return errors.As(err, &pe) || errors.As(err, &te)
}
