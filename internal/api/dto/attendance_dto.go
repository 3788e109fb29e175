package dto

import "time"

// IssueTokenResponse is returned by the issuer endpoint. ExpiresAt lets the
// holder's UI run a countdown and re-issue before expiry.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ExpiresIn int       `json:"expires_in"`
}

// VerifyTokenRequest carries the raw scanned token.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// ProfessorPayload mirrors the authoritative profile fields returned on a
// successful verification. Field names are part of the external contract.
type ProfessorPayload struct {
	ID        string `json:"id"`
	Nome      string `json:"nome"`
	Matricula string `json:"matricula"`
	UnidadeID string `json:"unidade_id"`
}

// VerifyTokenResponse is the verifier's wire shape: either valid with the
// professor payload, or invalid with a distinct error kind.
type VerifyTokenResponse struct {
	Valid     bool              `json:"valid"`
	Professor *ProfessorPayload `json:"professor,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ScanResponse extends the verify response with the recorded event.
type ScanResponse struct {
	Valid     bool              `json:"valid"`
	Professor *ProfessorPayload `json:"professor,omitempty"`
	Event     *ScanEventPayload `json:"event,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// ScanEventPayload describes the stored attendance event.
type ScanEventPayload struct {
	ID         string    `json:"id"`
	RecordedAt time.Time `json:"recorded_at"`
}
