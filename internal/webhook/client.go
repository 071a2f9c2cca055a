package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a webhook call when no explicit timeout is configured.
const DefaultTimeout = 15 * time.Second

// ErrMissingEndpoint indicates the client was configured without a target URL.
var ErrMissingEndpoint = errors.New("webhook: endpoint is required")

// ErrTimedOut is returned when the automation call exceeds its deadline. The
// message is user-facing copy and must stay distinct from transport errors.
var ErrTimedOut = errors.New("Automation webhook timed out. Please try again.")

// FallbackMessage is used when a failed response carries no body text.
const FallbackMessage = "Failed to trigger automation workflow"

// RemoteError is a non-2xx response from the automation endpoint. Message is
// the response body text when present, otherwise FallbackMessage.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Options configures the automation webhook client.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Client issues one-shot POST calls to the workflow automation endpoint.
// There is no retry, backoff, or idempotency key; callers needing at-most-once
// semantics per item must serialize calls themselves.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a client with injected endpoint and timeout.
func NewClient(opts Options) (*Client, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, ErrMissingEndpoint
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := zerolog.New(io.Discard)
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Client{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Payload is an outbound automation request body. It is built once, sent once
// and discarded; implementations report their own content type.
type Payload interface {
	body() (io.Reader, string, error)
}

// Fields is a plain JSON payload of string-keyed fields.
type Fields map[string]any

func (f Fields) body() (io.Reader, string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, "", fmt.Errorf("webhook: encode payload: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

// Attachment is the single binary part of a multipart payload.
type Attachment struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is a multipart payload: named text fields plus at most one attachment.
type Form struct {
	Fields     map[string]string
	Attachment *Attachment
}

func (f Form) body() (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, value := range f.Fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("webhook: write field %s: %w", name, err)
		}
	}
	if att := f.Attachment; att != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, att.Field, att.Filename))
		contentType := att.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("webhook: create attachment part: %w", err)
		}
		if _, err := part.Write(att.Data); err != nil {
			return nil, "", fmt.Errorf("webhook: write attachment: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("webhook: close multipart body: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// Send issues exactly one POST to the automation endpoint. A 2xx response is
// success and its body is ignored. The configured timeout always wins the race
// against the network call and yields ErrTimedOut.
func (c *Client) Send(ctx context.Context, payload Payload) error {
	reader, contentType, err := payload.body()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, reader)
	if err != nil {
		return fmt.Errorf("webhook: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimedOut
		}
		return fmt.Errorf("webhook: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Debug().Int("status", resp.StatusCode).Msg("webhook: automation call accepted")
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)
	message := strings.TrimSpace(string(raw))
	if message == "" {
		message = FallbackMessage
	}
	c.logger.Warn().Int("status", resp.StatusCode).Msg("webhook: automation call rejected")
	return &RemoteError{StatusCode: resp.StatusCode, Message: message}
}
