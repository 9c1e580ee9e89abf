package service

import (
	"errors"
	"fmt"

	"go-boutique-pos/pkg/validator"

	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")

	ErrBlankName        = errors.New("name must not be blank")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrAmountTooLarge   = errors.New("amount exceeds the supported maximum")
	ErrInvalidPrice     = errors.New("price must be a whole peso amount")
	ErrCategoryRequired = errors.New("category does not exist")
	ErrCategoryInUse    = errors.New("category still has products")
	ErrProductInUse     = errors.New("product is referenced by a sale")
	ErrCustomerRequired = errors.New("customer does not exist")
	ErrEmptySale        = errors.New("sale must contain at least one item")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrProductMissing   = errors.New("sale references an unknown product")

	ErrInvalidPIN         = errors.New("PIN must be exactly 4 digits")
	ErrPINNotSet          = errors.New("PIN is not configured")
	ErrWrongPIN           = errors.New("incorrect PIN")
	ErrNoSecurityQuestion = errors.New("no security question configured")
	ErrWrongAnswer        = errors.New("incorrect security answer")
	ErrBlankAnswer        = errors.New("security answer must not be blank")
	ErrBiometricNeedsPIN  = errors.New("biometric unlock requires a PIN")
	ErrInvalidPeriod      = errors.New("unknown dashboard period")
)

// notFound translates gorm's missing-row error into ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func validate(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrValidation, validator.FirstError(errs))
	}
	return nil
}
