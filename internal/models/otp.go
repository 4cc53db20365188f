package models

import "time"

// OTPRecord is the verification code issued for one destination phone
// number. Stored JSON-serialized in the keyed store under the
// destination; re-issuing overwrites the prior record.
type OTPRecord struct {
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Attempts    int       `json:"attempts"`
}
