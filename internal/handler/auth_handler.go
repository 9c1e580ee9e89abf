package handler

import (
	"go-boutique-pos/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	settingsService service.SettingsService
}

func NewAuthHandler(settingsService service.SettingsService) *AuthHandler {
	return &AuthHandler{settingsService: settingsService}
}

// UnlockRequest represents the unlock request body
type UnlockRequest struct {
	PIN string `json:"pin"`
}

// RecoverRequest represents the PIN recovery request body
type RecoverRequest struct {
	Answer string `json:"answer"`
}

// Unlock exchanges the PIN for a session token
// POST /api/v1/auth/unlock
func (h *AuthHandler) Unlock(c *fiber.Ctx) error {
	var req UnlockRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}
	if req.PIN == "" {
		return c.Status(400).JSON(fiber.Map{"error": "PIN is required"})
	}

	session, err := h.settingsService.Unlock(req.PIN)
	if err != nil {
		return respondError(c, err, "Failed to unlock")
	}
	return c.JSON(session)
}

// Recover answers the security question. The returned token may set a new PIN.
// POST /api/v1/auth/recover
func (h *AuthHandler) Recover(c *fiber.Ctx) error {
	var req RecoverRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidJSON(c)
	}

	session, err := h.settingsService.Recover(req.Answer)
	if err != nil {
		return respondError(c, err, "Failed to recover access")
	}
	return c.JSON(session)
}

// Status tells the client what the lock screen must show
// GET /api/v1/auth/status
func (h *AuthHandler) Status(c *fiber.Ctx) error {
	settings, err := h.settingsService.Get()
	if err != nil {
		return respondError(c, err, "Failed to fetch lock status")
	}
	required, err := h.settingsService.PINRequired()
	if err != nil {
		return respondError(c, err, "Failed to fetch lock status")
	}

	return c.JSON(fiber.Map{
		"pin_required":      required,
		"biometric_enabled": settings.BiometricEnabled && required,
		"security_question": settings.SecurityQuestion,
		"store_name":        settings.StoreName,
	})
}
