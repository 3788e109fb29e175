package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued        EventType = "token_issued"
	EventTokenVerified      EventType = "token_verified"
	EventReplayDetected     EventType = "replay_detected"
	EventVerifyRejected     EventType = "verify_rejected"
	EventAttendanceRecorded EventType = "attendance_recorded"
)

// Event represents a protocol event emitted by services. ProfessorID may be
// empty when the token never parsed.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ProfessorID string      `json:"professor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// TokenIssuedPayload payload.
type TokenIssuedPayload struct {
	Nonce     string    `json:"nonce"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenVerifiedPayload payload.
type TokenVerifiedPayload struct {
	Nonce string `json:"nonce"`
}

// ReplayDetectedPayload payload.
type ReplayDetectedPayload struct {
	Nonce      string     `json:"nonce"`
	FirstUseAt *time.Time `json:"first_use_at,omitempty"`
}

// VerifyRejectedPayload payload.
type VerifyRejectedPayload struct {
	Reason string `json:"reason"`
	Nonce  string `json:"nonce,omitempty"`
}

// AttendanceRecordedPayload payload.
type AttendanceRecordedPayload struct {
	EventID   string `json:"event_id"`
	ScannerID string `json:"scanner_id"`
	UnidadeID string `json:"unidade_id"`
}
