package handler

import (
	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	service service.SettingsService
}

func NewSettingsHandler(s service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

type PINRequest struct {
	PIN string `json:"pin"`
}

type BiometricRequest struct {
	Enabled bool `json:"enabled"`
}

type SecurityQuestionRequest struct {
	Question *string `json:"question"`
	Answer   string  `json:"answer"`
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.service.Get()
	if err != nil {
		return respondError(c, err, "Failed to fetch settings")
	}
	return c.JSON(settings)
}

func (h *SettingsHandler) UpdateStore(c *fiber.Ctx) error {
	var req service.StoreInput
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	settings, err := h.service.UpdateStore(req)
	if err != nil {
		return respondError(c, err, "Failed to update store settings")
	}
	return c.JSON(fiber.Map{"message": "Store settings updated", "data": settings})
}

// SetPIN is the only route a recovery token may call besides reads
func (h *SettingsHandler) SetPIN(c *fiber.Ctx) error {
	var req PINRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.SetPIN(req.PIN); err != nil {
		return respondError(c, err, "Failed to set PIN")
	}
	return c.JSON(fiber.Map{"message": "PIN updated"})
}

func (h *SettingsHandler) DisablePIN(c *fiber.Ctx) error {
	if err := h.service.DisablePIN(); err != nil {
		return respondError(c, err, "Failed to disable PIN")
	}
	return c.JSON(fiber.Map{"message": "PIN disabled"})
}

func (h *SettingsHandler) SetBiometric(c *fiber.Ctx) error {
	var req BiometricRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.SetBiometric(req.Enabled); err != nil {
		return respondError(c, err, "Failed to update biometric unlock")
	}
	return c.JSON(fiber.Map{"message": "Biometric unlock updated"})
}

// SetSecurityQuestion with a null or blank question removes the question
func (h *SettingsHandler) SetSecurityQuestion(c *fiber.Ctx) error {
	var req SecurityQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if err := h.service.SetSecurityQuestion(req.Question, req.Answer); err != nil {
		return respondError(c, err, "Failed to update security question")
	}
	return c.JSON(fiber.Map{"message": "Security question updated"})
}
