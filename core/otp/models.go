package otp

import "time"

// Purposes a one-time code can be issued for.
const (
	PurposeEmail  = "email"  // verify the account email
	PurposeMobile = "mobile" // verify the account mobile number
	PurposeReset  = "reset"  // password reset
)

var AllPurposes = []string{PurposeEmail, PurposeMobile, PurposeReset}

// Code is a short-lived one-time code keyed by (email, purpose).
// Re-issuing for the same key overwrites the previous record.
type Code struct {
	Email     string    `json:"email"`
	Purpose   string    `json:"purpose"`
	Code      string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"` // UTC
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Delivery modes reported back to the caller.
const (
	ModeReal = "real"
	ModeMock = "mock"
)
