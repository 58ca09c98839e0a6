package services

import (
	"context"
	"errors"
	"log"
	"time"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// KYC errors
var (
	ErrKYCNotFound        = errors.New("kyc record not found")
	ErrKYCNotPending      = errors.New("kyc record is not pending review")
	ErrKYCDocsIncomplete  = errors.New("kyc documents incomplete")
	ErrInvalidKYCScore    = errors.New("internal score must be between 0 and 100")
	ErrInvalidKYCDecision = errors.New("kyc decision must be VERIFIED or REJECTED")
)

// KYCService manages identity verification records
type KYCService struct {
	kycRepo       repositories.KYCRepository
	applicantRepo repositories.ApplicantRepository
}

// NewKYCService creates a new KYC service
func NewKYCService(
	kycRepo repositories.KYCRepository,
	applicantRepo repositories.ApplicantRepository,
) *KYCService {
	return &KYCService{
		kycRepo:       kycRepo,
		applicantRepo: applicantRepo,
	}
}

// SubmitDocumentsInput represents the applicant's document checklist
type SubmitDocumentsInput struct {
	HasPrimaryID    bool `json:"has_primary_id"`
	HasAddressProof bool `json:"has_address_proof"`
	HasSelfie       bool `json:"has_selfie"`
}

// ReviewKYCInput represents a staff review decision
type ReviewKYCInput struct {
	Decision      string `json:"decision" validate:"required"`
	InternalScore *int   `json:"internal_score"`
	Remark        string `json:"remark"`
}

// GetByApplicant gets the KYC record for an applicant
func (s *KYCService) GetByApplicant(ctx context.Context, applicantID uint) (*models.KYCRecord, error) {
	record, err := s.kycRepo.GetByApplicantID(ctx, applicantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKYCNotFound
		}
		return nil, err
	}
	return record, nil
}

// SubmitDocuments records the document checklist and moves the record to
// PENDING once all three proofs are present
func (s *KYCService) SubmitDocuments(ctx context.Context, applicantID uint, input *SubmitDocumentsInput) (*models.KYCRecord, error) {
	record, err := s.GetByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	record.HasPrimaryID = input.HasPrimaryID
	record.HasAddressProof = input.HasAddressProof
	record.HasSelfie = input.HasSelfie

	if record.HasPrimaryID && record.HasAddressProof && record.HasSelfie {
		record.Status = models.KYCStatusPending
	} else {
		record.Status = models.KYCStatusNotStarted
	}

	if err := s.kycRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	log.Printf("📄 KYC documents submitted for applicant ID %d (status: %s)", applicantID, record.Status)
	return record, nil
}

// Review applies a staff verification decision to a pending KYC record
func (s *KYCService) Review(ctx context.Context, applicantID, reviewerID uint, input *ReviewKYCInput) (*models.KYCRecord, error) {
	record, err := s.GetByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	if record.Status != models.KYCStatusPending {
		return nil, ErrKYCNotPending
	}

	switch input.Decision {
	case models.KYCStatusVerified:
		if !record.HasPrimaryID || !record.HasAddressProof || !record.HasSelfie {
			return nil, ErrKYCDocsIncomplete
		}
	case models.KYCStatusRejected:
		// rejection is allowed regardless of the checklist
	default:
		return nil, ErrInvalidKYCDecision
	}

	if input.InternalScore != nil {
		if *input.InternalScore < 0 || *input.InternalScore > 100 {
			return nil, ErrInvalidKYCScore
		}
		record.InternalScore = input.InternalScore
	}

	now := time.Now()
	record.Status = input.Decision
	record.ReviewedBy = &reviewerID
	record.ReviewedAt = &now
	record.Remark = input.Remark

	if err := s.kycRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	log.Printf("✅ KYC %s for applicant ID %d by reviewer %d", record.Status, applicantID, reviewerID)
	return record, nil
}

// Expire marks a verified KYC record expired, forcing re-verification
func (s *KYCService) Expire(ctx context.Context, applicantID uint) (*models.KYCRecord, error) {
	record, err := s.GetByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	record.Status = models.KYCStatusExpired
	if err := s.kycRepo.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListPending lists KYC records waiting for review
func (s *KYCService) ListPending(ctx context.Context, offset, limit int) ([]*models.KYCRecord, int64, error) {
	return s.kycRepo.ListByStatus(ctx, models.KYCStatusPending, offset, limit)
}
