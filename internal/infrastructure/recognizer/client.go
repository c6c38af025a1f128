// Package recognizer is the HTTP client for the external face-recognition
// service. The service accepts multipart uploads and answers with JSON.
package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/facecheck/attendance-api/internal/core/ports"
	"github.com/facecheck/attendance-api/internal/metrics"
	"github.com/facecheck/attendance-api/internal/pkg/imagedata"
)

const (
	DefaultRecognizeTimeout = 30 * time.Second
	DefaultEnrollTimeout    = 10 * time.Second
	DefaultHealthTimeout    = 5 * time.Second

	maxResponseBytes = 1 << 20
)

// Timeouts bounds each recognizer operation. Zero values use the defaults.
type Timeouts struct {
	Recognize time.Duration
	Enroll    time.Duration
	Health    time.Duration
}

// Client talks to the recognizer at baseURL.
type Client struct {
	baseURL  string
	http     *http.Client
	timeouts Timeouts
	log      zerolog.Logger
}

// NewClient returns a Client. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client, timeouts Timeouts, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeouts.Recognize <= 0 {
		timeouts.Recognize = DefaultRecognizeTimeout
	}
	if timeouts.Enroll <= 0 {
		timeouts.Enroll = DefaultEnrollTimeout
	}
	if timeouts.Health <= 0 {
		timeouts.Health = DefaultHealthTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		timeouts: timeouts,
		log:      log,
	}
}

type recognizeResponse struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type enrollResponse struct {
	Success bool   `json:"success"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Recognize uploads image to /recognize. Transport errors, non-2xx answers
// and unparsable bodies are all errors; there is no retry.
func (c *Client) Recognize(ctx context.Context, image []byte) (rec *ports.Recognition, err error) {
	defer observe("recognize", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Recognize)
	defer cancel()

	status, body, err := c.postMultipart(ctx, "/recognize", nil, "capture", image)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, fmt.Errorf("recognize failed with status %d: %s", status, truncate(body))
	}

	var out recognizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("could not unmarshal recognize response: %w", err)
	}
	return &ports.Recognition{
		Name:       strings.TrimSpace(out.Name),
		Confidence: out.Confidence,
		Raw:        json.RawMessage(body),
	}, nil
}

// Enroll uploads image under name to /enroll. A 4xx answer carrying a JSON
// message is a rejected enrollment, not an error.
func (c *Client) Enroll(ctx context.Context, name string, image []byte) (enr *ports.Enrollment, err error) {
	defer observe("enroll", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Enroll)
	defer cancel()

	status, body, err := c.postMultipart(ctx, "/enroll", map[string]string{"name": name}, "enrollment", image)
	if err != nil {
		return nil, err
	}

	var out enrollResponse
	decodeErr := json.Unmarshal(body, &out)

	switch {
	case status >= 200 && status <= 299:
		if decodeErr != nil {
			return nil, fmt.Errorf("could not unmarshal enroll response: %w", decodeErr)
		}
	case status >= 400 && status <= 499 && decodeErr == nil && out.Message != "":
		out.Success = false
	default:
		return nil, fmt.Errorf("enroll failed with status %d: %s", status, truncate(body))
	}

	return &ports.Enrollment{
		Success: out.Success,
		Name:    strings.TrimSpace(out.Name),
		Message: out.Message,
		Raw:     json.RawMessage(body),
	}, nil
}

// Health probes /health. It never fails: an unreachable service is offline.
func (c *Client) Health(ctx context.Context) ports.RecognizerHealth {
	var err error
	defer observe("health", time.Now(), &err)

	ctx, cancel := context.WithTimeout(ctx, c.timeouts.Health)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return ports.RecognizerOffline
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Msg("recognizer health probe failed")
		return ports.RecognizerOffline
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode == http.StatusOK {
		return ports.RecognizerHealthy
	}
	err = fmt.Errorf("health status %d", resp.StatusCode)
	return ports.RecognizerUnhealthy
}

// postMultipart sends fields plus image as the "file" part and returns the
// status and body.
func (c *Client) postMultipart(ctx context.Context, endpoint string, fields map[string]string, stem string, image []byte) (int, []byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return 0, nil, fmt.Errorf("could not write field %s: %w", k, err)
		}
	}

	contentType, filename := "image/jpeg", stem+".jpg"
	if img, err := imagedata.Sniff(image); err == nil {
		contentType, filename = img.ContentType(), img.Filename(stem)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return 0, nil, fmt.Errorf("could not copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return 0, nil, fmt.Errorf("could not close writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &body)
	if err != nil {
		return 0, nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("could not read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func observe(operation string, start time.Time, err *error) {
	result := "ok"
	if err != nil && *err != nil {
		result = "error"
	}
	metrics.RecognizerRequestDuration.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

func truncate(body []byte) string {
	const limit = 512
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	if s == "" {
		return "(empty body)"
	}
	return s
}
