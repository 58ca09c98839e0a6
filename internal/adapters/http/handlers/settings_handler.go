package handlers

import (
	"errors"

	"quickpaisa-backend/internal/core/services"
	"quickpaisa-backend/internal/pkg/pagination"
	"quickpaisa-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// SettingsHandler handles risk settings endpoints
type SettingsHandler struct {
	settingsService *services.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetActive handles getting the active risk settings
// @Summary Get active risk settings
// @Description Get the risk policy currently applied to new applications
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /settings/risk [get]
func (h *SettingsHandler) GetActive(c *fiber.Ctx) error {
	settings, err := h.settingsService.GetActive(c.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSettings) {
			return response.NotFound(c, "No active risk settings")
		}
		return response.InternalServerError(c, "Failed to get risk settings")
	}

	return response.Success(c, "Risk settings retrieved successfully", settings)
}

// Update handles risk settings updates
// @Summary Update risk settings
// @Description Validate and activate a new risk policy (admin only)
// @Tags Settings
// @Accept json
// @Produce json
// @Param body body services.SettingsInput true "Risk settings"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /settings/risk [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	var input services.SettingsInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	settings, err := h.settingsService.Update(c.Context(), &input, userID)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Risk settings updated successfully", settings)
}

// History handles listing risk settings history
// @Summary Risk settings history
// @Description List past risk policies, newest first
// @Tags Settings
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /settings/risk/history [get]
func (h *SettingsHandler) History(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	rows, total, err := h.settingsService.History(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list risk settings")
	}

	return response.Success(c, "Risk settings history retrieved successfully",
		pagination.NewResponse(rows, params, total))
}
