package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talenthive/hrbot-backend/internal/kvstore"
	"github.com/talenthive/hrbot-backend/internal/models"
	"github.com/talenthive/hrbot-backend/internal/utils"
)

const otpKeyPrefix = "otp:"

// VerifyResult is the outcome of an OTP check.
type VerifyResult int

const (
	VerifyNotFound VerifyResult = iota
	VerifyMatch
	VerifyMismatch
	VerifyExpired
)

func (r VerifyResult) String() string {
	switch r {
	case VerifyMatch:
		return "match"
	case VerifyMismatch:
		return "mismatch"
	case VerifyExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// OTPService issues and verifies one-time passcodes keyed by
// destination phone number. Codes are single use, expire after five
// minutes and allow three failed attempts before the record is dropped.
type OTPService struct {
	store       kvstore.Store
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

// NewOTPService creates an OTP service over the given keyed store.
func NewOTPService(store kvstore.Store) *OTPService {
	return &OTPService{
		store:       store,
		ttl:         5 * time.Minute,
		maxAttempts: 3,
		now:         time.Now,
	}
}

// SetClock replaces the service clock (tests).
func (s *OTPService) SetClock(now func() time.Time) {
	s.now = now
}

// Issue generates a fresh 6-digit code for destination, overwriting
// any prior record, and returns it for dispatch.
func (s *OTPService) Issue(ctx context.Context, destination string) (string, error) {
	code, err := utils.GenerateSecureOTP()
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}

	now := s.now()
	record := models.OTPRecord{
		Destination: destination,
		Code:        code,
		IssuedAt:    now,
		ExpiresAt:   now.Add(s.ttl),
		Attempts:    0,
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode OTP record: %w", err)
	}

	// The store keeps the record past the logical expiry so a late
	// check still answers "expired" instead of "not found"
	if err := s.store.Set(ctx, otpKeyPrefix+destination, string(raw), 2*s.ttl); err != nil {
		return "", fmt.Errorf("failed to store OTP record: %w", err)
	}
	return code, nil
}

// Verify checks candidate against the stored code for destination.
// A match consumes the record, so replaying the same code answers
// not-found. An expired record is dropped and the caller must
// re-issue. A mismatch keeps the record until the attempt ceiling.
func (s *OTPService) Verify(ctx context.Context, destination, candidate string) (VerifyResult, error) {
	key := otpKeyPrefix + destination

	raw, exists, err := s.store.Get(ctx, key)
	if err != nil {
		return VerifyNotFound, fmt.Errorf("failed to load OTP record: %w", err)
	}
	if !exists {
		return VerifyNotFound, nil
	}

	var record models.OTPRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return VerifyNotFound, fmt.Errorf("failed to decode OTP record: %w", err)
	}

	if s.now().After(record.ExpiresAt) {
		if err := s.store.Delete(ctx, key); err != nil {
			return VerifyExpired, fmt.Errorf("failed to drop expired OTP: %w", err)
		}
		return VerifyExpired, nil
	}

	if candidate == record.Code {
		// Single use: consume on match
		if err := s.store.Delete(ctx, key); err != nil {
			return VerifyMatch, fmt.Errorf("failed to consume OTP: %w", err)
		}
		return VerifyMatch, nil
	}

	record.Attempts++
	if record.Attempts >= s.maxAttempts {
		// Brute-force ceiling: drop the record, forcing a re-issue
		if err := s.store.Delete(ctx, key); err != nil {
			return VerifyMismatch, fmt.Errorf("failed to drop OTP after max attempts: %w", err)
		}
		return VerifyMismatch, nil
	}

	updated, err := json.Marshal(record)
	if err != nil {
		return VerifyMismatch, fmt.Errorf("failed to encode OTP record: %w", err)
	}
	remaining := 2*s.ttl - s.now().Sub(record.IssuedAt)
	if err := s.store.Set(ctx, key, string(updated), remaining); err != nil {
		return VerifyMismatch, fmt.Errorf("failed to update OTP record: %w", err)
	}
	return VerifyMismatch, nil
}
