package handlers

import (
	"errors"
	"strconv"
	"strings"

	"quickpaisa-backend/internal/adapters/persistence/models"
	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/pagination"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicantHandler handles applicant endpoints
type ApplicantHandler struct {
	applicantService *services.ApplicantService
	otpService       *services.OTPService
}

// NewApplicantHandler creates a new applicant handler
func NewApplicantHandler(
	applicantService *services.ApplicantService,
	otpService *services.OTPService,
) *ApplicantHandler {
	return &ApplicantHandler{
		applicantService: applicantService,
		otpService:       otpService,
	}
}

// OTPRequest represents an OTP request body
type OTPRequest struct {
	PhoneNumber string `json:"phone_number"`
}

// OTPVerifyRequest represents an OTP verification body
type OTPVerifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

// Register handles applicant registration
// @Summary Register new applicant
// @Description Register a new borrower with phone number and profile
// @Tags Applicants
// @Accept json
// @Produce json
// @Param body body services.RegisterApplicantInput true "Applicant data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applicants [post]
func (h *ApplicantHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterApplicantInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.FullName = strings.TrimSpace(input.FullName)
	if input.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}
	if input.FullName == "" {
		return response.BadRequest(c, "Full name is required")
	}

	applicant, err := h.applicantService.Register(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhoneNumber):
			return response.BadRequest(c, "Invalid mobile number")
		case errors.Is(err, services.ErrApplicantAlreadyExists):
			return response.Conflict(c, "Phone number already registered")
		default:
			return response.InternalServerError(c, "Failed to register applicant")
		}
	}

	return response.Created(c, "Applicant registered successfully", applicant)
}

// Get handles getting one applicant
// @Summary Get applicant
// @Description Get an applicant by ID with KYC record
// @Tags Applicants
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applicants/{id} [get]
func (h *ApplicantHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	applicant, err := h.applicantService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to get applicant")
	}

	return response.Success(c, "Applicant retrieved successfully", applicant)
}

// List handles listing applicants
// @Summary List applicants
// @Description List applicants with pagination
// @Tags Applicants
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants [get]
func (h *ApplicantHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	applicants, total, err := h.applicantService.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list applicants")
	}

	return response.Success(c, "Applicants retrieved successfully",
		pagination.NewResponse(applicants, params, total))
}

// UpdateProfile handles profile updates
// @Summary Update applicant profile
// @Description Update an applicant's profile fields
// @Tags Applicants
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.UpdateApplicantInput true "Profile fields"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applicants/{id} [patch]
func (h *ApplicantHandler) UpdateProfile(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	var input services.UpdateApplicantInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	applicant, err := h.applicantService.UpdateProfile(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to update applicant")
	}

	return response.Success(c, "Applicant updated successfully", applicant)
}

// UpdateBankDetails handles bank account updates
// @Summary Update bank details
// @Description Record a new bank account; verification resets until confirmed
// @Tags Applicants
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.BankDetailsInput true "Bank details"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/bank [put]
func (h *ApplicantHandler) UpdateBankDetails(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	var input services.BankDetailsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.AccountNumber == "" || input.IFSC == "" {
		return response.BadRequest(c, "Account number and IFSC are required")
	}

	applicant, err := h.applicantService.UpdateBankDetails(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to update bank details")
	}

	return response.Success(c, "Bank details updated successfully", applicant)
}

// VerifyBankAccount handles bank account verification
// @Summary Verify bank account
// @Description Mark the applicant's bank account as verified
// @Tags Applicants
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/bank/verify [post]
func (h *ApplicantHandler) VerifyBankAccount(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	applicant, err := h.applicantService.VerifyBankAccount(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to verify bank account")
	}

	return response.Success(c, "Bank account verified successfully", applicant)
}

// UpdateFlags handles risk flag updates
// @Summary Update risk flags
// @Description Update blacklist/fraud/behavioral flags (admin only)
// @Tags Applicants
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.FlagsInput true "Risk flags"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/flags [put]
func (h *ApplicantHandler) UpdateFlags(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	var input services.FlagsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	applicant, err := h.applicantService.UpdateFlags(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to update flags")
	}

	return response.Success(c, "Flags updated successfully", applicant)
}

// UpdateCreditProfile handles bureau and credit line updates
// @Summary Update credit profile
// @Description Update bureau score and credit line fields
// @Tags Applicants
// @Accept json
// @Produce json
// @Param id path int true "Applicant ID"
// @Param body body services.CreditProfileInput true "Credit profile"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/credit [put]
func (h *ApplicantHandler) UpdateCreditProfile(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	var input services.CreditProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	applicant, err := h.applicantService.UpdateCreditProfile(c.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrApplicantNotFound) {
			return response.NotFound(c, "Applicant not found")
		}
		return response.InternalServerError(c, "Failed to update credit profile")
	}

	return response.Success(c, "Credit profile updated successfully", applicant)
}

// RequestOTP handles OTP requests for phone verification
// @Summary Request OTP
// @Description Send a one-time passcode to the applicant's phone
// @Tags Applicants
// @Accept json
// @Produce json
// @Param body body OTPRequest true "Phone number"
// @Success 200 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /applicants/otp/request [post]
func (h *ApplicantHandler) RequestOTP(c *fiber.Ctx) error {
	var req OTPRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" {
		return response.BadRequest(c, "Phone number is required")
	}

	err := h.otpService.RequestOTP(c.Context(), strings.TrimSpace(req.PhoneNumber), models.OTPPurposePhoneVerify)
	if err != nil {
		if errors.Is(err, services.ErrOTPRateLimited) {
			return response.Error(c, fiber.StatusTooManyRequests, "Too many OTP requests, please wait")
		}
		return response.InternalServerError(c, "Failed to send OTP")
	}

	return response.Success(c, "OTP sent successfully", nil)
}

// VerifyOTP handles OTP verification
// @Summary Verify OTP
// @Description Verify the passcode and mark the phone number verified
// @Tags Applicants
// @Accept json
// @Produce json
// @Param body body OTPVerifyRequest true "Phone number and code"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /applicants/otp/verify [post]
func (h *ApplicantHandler) VerifyOTP(c *fiber.Ctx) error {
	var req OTPVerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.PhoneNumber == "" || req.Code == "" {
		return response.BadRequest(c, "Phone number and code are required")
	}

	err := h.otpService.VerifyOTP(c.Context(), strings.TrimSpace(req.PhoneNumber), models.OTPPurposePhoneVerify, strings.TrimSpace(req.Code))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOTPNotFound),
			errors.Is(err, services.ErrOTPExpired),
			errors.Is(err, services.ErrOTPInvalid),
			errors.Is(err, services.ErrOTPTooManyTries),
			errors.Is(err, services.ErrOTPAlreadyUsed):
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to verify OTP")
		}
	}

	return response.Success(c, "Phone number verified successfully", nil)
}

// parseIDParam parses the :id path parameter
func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
