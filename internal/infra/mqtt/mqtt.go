package mqtt

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Broker is the part of an MQTT connection the source and speaker use.
// Tests substitute an in-memory broker.
type Broker interface {
	Subscribe(topic string, cb func(topic string, payload []byte)) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte) error
}

type Client struct {
	cli    paho.Client
	logger *slog.Logger
}

// Connect dials brokerURL (mqtt://, tcp://, ssl://, tls://, ws:// or wss://).
// Credentials embedded in the URL are used for authentication.
func Connect(brokerURL, clientID string, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(brokerURL)
	if err != nil {
		return nil, fmt.Errorf("parsing broker url: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parsing broker url: missing host in %q", brokerURL)
	}

	opts := paho.NewClientOptions()
	server := u.Host
	switch u.Scheme {
	case "mqtt", "tcp", "":
		server = "tcp://" + server
	case "ssl", "tls":
		server = "ssl://" + server
	case "ws", "wss":
		server = u.Scheme + "://" + server + u.Path
	default:
		return nil, fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}
	opts.AddBroker(server)
	opts.SetClientID(clientID + "-" + time.Now().Format("150405.000"))
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.OnConnect = func(paho.Client) { logger.Info("mqtt connected", "broker", u.Redacted()) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { logger.Error("mqtt connection lost", "error", err) }
	if u.User != nil {
		pw, _ := u.User.Password()
		opts.SetUsername(u.User.Username())
		opts.SetPassword(pw)
	}
	if u.Scheme == "ssl" || u.Scheme == "tls" || u.Scheme == "wss" {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	cli := paho.NewClient(opts)
	if t := cli.Connect(); t.Wait() && t.Error() != nil {
		return nil, fmt.Errorf("connecting to broker: %w", t.Error())
	}
	return &Client{cli: cli, logger: logger}, nil
}

func (c *Client) Subscribe(topic string, cb func(topic string, payload []byte)) error {
	t := c.cli.Subscribe(topic, 1, func(_ paho.Client, m paho.Message) {
		cb(m.Topic(), m.Payload())
	})
	if t.Wait() && t.Error() != nil {
		return t.Error()
	}
	c.logger.Info("mqtt subscribed", "topic", topic)
	return nil
}

func (c *Client) Unsubscribe(topic string) error {
	t := c.cli.Unsubscribe(topic)
	if t.Wait() && t.Error() != nil {
		return t.Error()
	}
	c.logger.Info("mqtt unsubscribed", "topic", topic)
	return nil
}

func (c *Client) Publish(topic string, payload []byte) error {
	t := c.cli.Publish(topic, 1, false, payload)
	if t.Wait() && t.Error() != nil {
		return t.Error()
	}
	return nil
}

func (c *Client) Close() {
	c.cli.Disconnect(250)
}
