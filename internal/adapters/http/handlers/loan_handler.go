package handlers

import (
	"errors"

	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/pagination"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan ledger endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// Disburse handles loan disbursement
// @Summary Disburse loan
// @Description Create the loan ledger entry for an approved application
// @Tags Loans
// @Produce json
// @Param id path int true "Application ID"
// @Security BearerAuth
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/disburse [post]
func (h *LoanHandler) Disburse(c *fiber.Ctx) error {
	applicationID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	loan, err := h.loanService.Disburse(c.Context(), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrApplicationNotApproved):
			return response.Conflict(c, "Application is not approved")
		case errors.Is(err, services.ErrLoanAlreadyDisbursed):
			return response.Conflict(c, "Loan already disbursed for this application")
		default:
			return response.InternalServerError(c, "Failed to disburse loan")
		}
	}

	return response.Created(c, "Loan disbursed successfully", loan)
}

// Get handles getting one loan
// @Summary Get loan
// @Description Get a loan with its installment schedule
// @Tags Loans
// @Produce json
// @Param id path int true "Loan ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) Get(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan)
}

// List handles listing loans
// @Summary List loans
// @Description List loans, optionally filtered by status
// @Tags Loans
// @Produce json
// @Param status query string false "Status filter"
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	status := c.Query("status")

	loans, total, err := h.loanService.List(c.Context(), status, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully",
		pagination.NewResponse(loans, params, total))
}

// ListByApplicant handles listing one applicant's loans
// @Summary List loans by applicant
// @Description List all loans of one applicant with installments
// @Tags Loans
// @Produce json
// @Param id path int true "Applicant ID"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /applicants/{id}/loans [get]
func (h *LoanHandler) ListByApplicant(c *fiber.Ctx) error {
	applicantID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid applicant ID")
	}

	loans, err := h.loanService.ListByApplicant(c.Context(), applicantID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", loans)
}

// RecordPayment handles an installment payment
// @Summary Record installment payment
// @Description Mark an installment paid; closes the loan when it was the last one
// @Tags Loans
// @Accept json
// @Produce json
// @Param id path int true "Installment ID"
// @Param body body services.RecordPaymentInput true "Payment data"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /installments/{id}/payment [post]
func (h *LoanHandler) RecordPayment(c *fiber.Ctx) error {
	installmentID, err := parseIDParam(c)
	if err != nil {
		return response.BadRequest(c, "Invalid installment ID")
	}

	var input services.RecordPaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.Amount <= 0 {
		return response.BadRequest(c, "Payment amount must be positive")
	}

	loan, err := h.loanService.RecordPayment(c.Context(), installmentID, &input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInstallmentNotFound):
			return response.NotFound(c, "Installment not found")
		case errors.Is(err, services.ErrInstallmentAlreadyPaid):
			return response.Conflict(c, "Installment already paid")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded successfully", loan)
}
