package handlers

import (
	"errors"

	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/pagination"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// KYCHandler handles KYC verification endpoints
type KYCHandler struct {
	kycService *services.KYCService
}

// NewKYCHandler creates a new KYC handler
func NewKYCHandler(kycService *services.KYCService) *KYCHandler {
	return &KYCHandler{kycService: kycService}
}

// Get handles getting an applicant's KYC record
// @Summary Get KYC record
// @Description Get the KYC record for an applicant
// @Tags KYC
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applicants/{id}/kyc [get]
func (h *KYCHandler) Get(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	record, err := h.kycService.GetByApplicant(c.Context(), applicantID)
	if err != nil {
		if errors.Is(err, services.ErrKYCNotFound) {
			return response.NotFound(c, "KYC record not found")
		}
		return response.InternalServerError(c, "Failed to get KYC record")
	}

	return response.Success(c, "KYC record retrieved successfully", record)
}

// SubmitDocuments handles the applicant's document checklist submission
// @Summary Submit KYC documents
// @Description Record the document checklist; all three proofs move the record to PENDING
// @Tags KYC
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.SubmitDocumentsInput true "Document checklist"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/kyc/documents [post]
func (h *KYCHandler) SubmitDocuments(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	var input services.SubmitDocumentsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.kycService.SubmitDocuments(c.Context(), applicantID, &input)
	if err != nil {
		if errors.Is(err, services.ErrKYCNotFound) {
			return response.NotFound(c, "KYC record not found")
		}
		return response.InternalServerError(c, "Failed to submit documents")
	}

	return response.Success(c, "Documents submitted successfully", record)
}

// Review handles a staff verification decision
// @Summary Review KYC record
// @Description Apply a VERIFIED or REJECTED decision to a pending KYC record
// @Tags KYC
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.ReviewKYCInput true "Review decision"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applicants/{id}/kyc/review [post]
func (h *KYCHandler) Review(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	reviewerID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.ReviewKYCInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	record, err := h.kycService.Review(c.Context(), applicantID, reviewerID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrKYCNotFound):
			return response.NotFound(c, "KYC record not found")
		case errors.Is(err, services.ErrKYCNotPending):
			return response.Conflict(c, "KYC record is not pending review")
		case errors.Is(err, services.ErrKYCDocsIncomplete),
			errors.Is(err, services.ErrInvalidKYCScore),
			errors.Is(err, services.ErrInvalidKYCDecision):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to review KYC record")
		}
	}

	return response.Success(c, "KYC review applied successfully", record)
}

// Expire handles forcing KYC re-verification
// @Summary Expire KYC record
// @Description Mark a KYC record expired, forcing re-verification
// @Tags KYC
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/kyc/expire [post]
func (h *KYCHandler) Expire(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	record, err := h.kycService.Expire(c.Context(), applicantID)
	if err != nil {
		if errors.Is(err, services.ErrKYCNotFound) {
			return response.NotFound(c, "KYC record not found")
		}
		return response.InternalServerError(c, "Failed to expire KYC record")
	}

	return response.Success(c, "KYC record expired", record)
}

// ListPending handles listing the KYC review queue
// @Summary List pending KYC records
// @Description List KYC records waiting for staff review
// @Tags KYC
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /kyc/pending [get]
func (h *KYCHandler) ListPending(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	records, total, err := h.kycService.ListPending(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list pending KYC records")
	}

	return response.Success(c, "Pending KYC records retrieved successfully",
		pagination.NewResponse(records, params, total))
}
