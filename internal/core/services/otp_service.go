package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"
	"quickpaisa-backend/internal/pkg/password"

	"gorm.io/gorm"
)

// OTP errors
var (
	ErrOTPNotFound     = errors.New("otp not found, please request a new one")
	ErrOTPExpired      = errors.New("otp expired, please request a new one")
	ErrOTPInvalid      = errors.New("otp is incorrect")
	ErrOTPTooManyTries = errors.New("too many incorrect attempts, please request a new one")
	ErrOTPRateLimited  = errors.New("too many otp requests, please wait before retrying")
	ErrOTPAlreadyUsed  = errors.New("otp already used")
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 5
	otpMaxPerHour  = 5
)

// OTPService handles phone verification via one-time passcodes
type OTPService struct {
	otpRepo       repositories.OTPRepository
	applicantRepo repositories.ApplicantRepository
	notifService  *NotificationService
}

// NewOTPService creates a new OTP service
func NewOTPService(
	otpRepo repositories.OTPRepository,
	applicantRepo repositories.ApplicantRepository,
	notifService *NotificationService,
) *OTPService {
	return &OTPService{
		otpRepo:       otpRepo,
		applicantRepo: applicantRepo,
		notifService:  notifService,
	}
}

// RequestOTP generates a passcode for a phone number and sends it via SMS
func (s *OTPService) RequestOTP(ctx context.Context, phone, purpose string) error {
	// Rate limit per phone number
	count, err := s.otpRepo.CountRecent(ctx, phone, time.Now().Add(-1*time.Hour))
	if err != nil {
		return err
	}
	if count >= otpMaxPerHour {
		return ErrOTPRateLimited
	}

	code, err := generateSecureOTP(otpLength)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	otp := &models.OTPRequest{
		PhoneNumber: phone,
		CodeHash:    password.HashToken(code),
		Purpose:     purpose,
		ExpiresAt:   time.Now().Add(otpTTL),
	}
	if err := s.otpRepo.Create(ctx, otp); err != nil {
		return err
	}

	return s.notifService.SendOTP(ctx, phone, code)
}

// VerifyOTP checks the passcode for a phone number. On success for the
// phone-verify purpose the applicant record is marked phone_verified.
func (s *OTPService) VerifyOTP(ctx context.Context, phone, purpose, code string) error {
	otp, err := s.otpRepo.GetLatest(ctx, phone, purpose)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOTPNotFound
		}
		return err
	}

	if otp.VerifiedAt != nil {
		return ErrOTPAlreadyUsed
	}
	if time.Now().After(otp.ExpiresAt) {
		return ErrOTPExpired
	}
	if otp.Attempts >= otpMaxAttempts {
		return ErrOTPTooManyTries
	}

	otp.Attempts++
	if password.HashToken(code) != otp.CodeHash {
		if err := s.otpRepo.Update(ctx, otp); err != nil {
			return err
		}
		return ErrOTPInvalid
	}

	now := time.Now()
	otp.VerifiedAt = &now
	if err := s.otpRepo.Update(ctx, otp); err != nil {
		return err
	}

	if purpose == models.OTPPurposePhoneVerify {
		applicant, err := s.applicantRepo.GetByPhone(ctx, phone)
		if err == nil && !applicant.PhoneVerified {
			applicant.PhoneVerified = true
			return s.applicantRepo.Update(ctx, applicant)
		}
	}

	return nil
}

// generateSecureOTP generates a cryptographically secure random OTP
func generateSecureOTP(length int) (string, error) {
	result := ""
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		result += fmt.Sprintf("%d", n.Int64())
	}
	return result, nil
}
