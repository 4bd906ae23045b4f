package domoticz

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"domovoice/internal/domain"
	"domovoice/internal/infra"
	"domovoice/internal/metrics"
)

// Commands that only read server state and may be retried.
var readOnlyCommands = map[string]bool{
	"getplandevices":  true,
	"getscenedevices": true,
	"getSunRiseSet":   true,
}

type Client struct {
	creds      domain.CredentialsProvider
	httpClient *http.Client
	retry      infra.RetryConfig
}

func NewClient(creds domain.CredentialsProvider, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		retry:      infra.DefaultRetryConfig(),
	}
}

// WithRetry replaces the backoff used for read requests.
func (c *Client) WithRetry(cfg infra.RetryConfig) *Client {
	c.retry = cfg
	return c
}

type envelope struct {
	Status  string          `json:"status"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// Request issues GET <server>/json.htm?type=<resourceType>&<args> and returns
// the envelope's result. A nil result with a nil error means the server sent
// no result field at all.
func (c *Client) Request(ctx context.Context, resourceType string, args url.Values) (json.RawMessage, error) {
	env, _, err := c.get(ctx, resourceType, "", args, c.retry)
	if err != nil {
		return nil, err
	}
	return env.result(), nil
}

// Command is Request("command") with param placed right after the type.
func (c *Client) Command(ctx context.Context, param string, args url.Values) (json.RawMessage, error) {
	env, _, err := c.get(ctx, "command", param, args, c.commandRetry(param))
	if err != nil {
		return nil, err
	}
	return env.result(), nil
}

// commandBody is Command for the few server commands that answer outside
// the result field.
func (c *Client) commandBody(ctx context.Context, param string, args url.Values) ([]byte, error) {
	_, body, err := c.get(ctx, "command", param, args, c.commandRetry(param))
	return body, err
}

func (c *Client) commandRetry(param string) infra.RetryConfig {
	if readOnlyCommands[param] {
		return c.retry
	}
	return infra.NoRetry()
}

func (e envelope) result() json.RawMessage {
	if len(e.Result) == 0 || string(e.Result) == "null" {
		return nil
	}
	return e.Result
}

func (c *Client) get(ctx context.Context, resourceType, param string, args url.Values, retry infra.RetryConfig) (envelope, []byte, error) {
	creds, err := domain.ResolveCredentials(ctx, c.creds)
	if err != nil {
		return envelope{}, nil, err
	}

	label := resourceType
	if param != "" {
		label = resourceType + ":" + param
	}
	endpoint := strings.TrimSuffix(creds.Server, "/") + "/json.htm?" + buildQuery(resourceType, param, args)

	var env envelope
	var body []byte
	err = infra.WithRetry(ctx, retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return infra.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("Authorization", "Basic "+basicToken(creds.Username, creds.Password))

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &domain.TransportError{Resource: label, Err: err}
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return &domain.TransportError{Resource: label, Err: fmt.Errorf("reading response: %w", err)}
		}

		if resp.StatusCode != http.StatusOK {
			terr := &domain.TransportError{
				Resource:   label,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body))),
			}
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return terr
			}
			return infra.Permanent(terr)
		}

		env = envelope{}
		if err := json.Unmarshal(body, &env); err != nil {
			return infra.Permanent(&domain.ProtocolError{Resource: label, Message: fmt.Sprintf("decoding envelope: %v", err)})
		}
		if env.Status != "OK" {
			msg := env.Message
			if msg == "" {
				msg = env.Title
			}
			return infra.Permanent(&domain.ProtocolError{Resource: label, Status: env.Status, Message: msg})
		}
		return nil
	})

	metrics.RequestCounter.WithLabelValues(label, outcome(err)).Inc()
	if err != nil {
		return envelope{}, nil, err
	}
	return env, body, nil
}

func buildQuery(resourceType, param string, args url.Values) string {
	var sb strings.Builder
	sb.WriteString("type=")
	sb.WriteString(url.QueryEscape(resourceType))
	if param != "" {
		sb.WriteString("&param=")
		sb.WriteString(url.QueryEscape(param))
	}
	if enc := args.Encode(); enc != "" {
		sb.WriteString("&")
		sb.WriteString(enc)
	}
	return sb.String()
}

func basicToken(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}

func outcome(err error) string {
	var pe *domain.ProtocolError
	var te *domain.TransportError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &pe):
		return "protocol_error"
	case errors.As(err, &te):
		return "transport_error"
	default:
		return "error"
	}
}
