package handler

import (
	"errors"
	"strconv"

	"go-boutique-pos/internal/service"
	"go-boutique-pos/pkg/log"

	"github.com/gofiber/fiber/v2"
)

// statusMap translates service sentinels into HTTP status codes.
// Anything not listed is a 500.
var statusMap = map[error]int{
	service.ErrNotFound: fiber.StatusNotFound,

	service.ErrValidation:         fiber.StatusBadRequest,
	service.ErrBlankName:          fiber.StatusBadRequest,
	service.ErrInvalidAmount:      fiber.StatusBadRequest,
	service.ErrAmountTooLarge:     fiber.StatusBadRequest,
	service.ErrInvalidPrice:       fiber.StatusBadRequest,
	service.ErrCategoryRequired:   fiber.StatusBadRequest,
	service.ErrCustomerRequired:   fiber.StatusBadRequest,
	service.ErrEmptySale:          fiber.StatusBadRequest,
	service.ErrInvalidQuantity:    fiber.StatusBadRequest,
	service.ErrProductMissing:     fiber.StatusBadRequest,
	service.ErrInvalidPIN:         fiber.StatusBadRequest,
	service.ErrBlankAnswer:        fiber.StatusBadRequest,
	service.ErrInvalidPeriod:      fiber.StatusBadRequest,
	service.ErrBiometricNeedsPIN:  fiber.StatusBadRequest,
	service.ErrPINNotSet:          fiber.StatusBadRequest,
	service.ErrNoSecurityQuestion: fiber.StatusBadRequest,

	service.ErrCategoryInUse: fiber.StatusConflict,
	service.ErrProductInUse:  fiber.StatusConflict,

	service.ErrWrongPIN:    fiber.StatusUnauthorized,
	service.ErrWrongAnswer: fiber.StatusUnauthorized,
}

func statusFor(err error) int {
	for sentinel, status := range statusMap {
		if errors.Is(err, sentinel) {
			return status
		}
	}
	return fiber.StatusInternalServerError
}

// respondError writes {"error": ...}. Internal errors are logged and hidden.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.ForContext(c.UserContext()).WithError(err).WithField("path", c.Path()).Error(fallback)
		return c.Status(status).JSON(fiber.Map{"error": fallback})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func invalidJSON(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(400).JSON(fiber.Map{"error": "Invalid ID format"})
}
