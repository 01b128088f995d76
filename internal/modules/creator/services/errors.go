package services

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrConfirmationRequired = errors.New("plan switch requires confirmation")
	ErrAccountRejected      = errors.New("account has no plan yet; pick a plan to continue")
	ErrAccountRemoved       = errors.New("account removed after repeated inactive sign-ins")
	ErrRewardLimit          = errors.New("daily reward limit reached")
	ErrUpstream             = errors.New("script generation failed")
	ErrPaymentNotVerified   = errors.New("checkout could not be verified")
	ErrPaymentUnavailable   = errors.New("payment provider unavailable, try again shortly")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
