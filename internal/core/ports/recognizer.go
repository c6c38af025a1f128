package ports

import (
	"context"
	"encoding/json"
)

// Recognition is the recognizer's claim about a submitted face.
// Raw keeps the untouched response body for the audit log.
type Recognition struct {
	Name       string
	Confidence float64
	Raw        json.RawMessage
}

// Enrollment is the recognizer's answer to an enroll request.
type Enrollment struct {
	Success bool
	Name    string
	Message string
	Raw     json.RawMessage
}

type RecognizerHealth string

const (
	RecognizerHealthy   RecognizerHealth = "healthy"
	RecognizerUnhealthy RecognizerHealth = "unhealthy"
	RecognizerOffline   RecognizerHealth = "offline"
)

// Recognizer is the external face-recognition service.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) (*Recognition, error)
	Enroll(ctx context.Context, name string, image []byte) (*Enrollment, error)
	Health(ctx context.Context) RecognizerHealth
}
