package services

import "errors"

var (
	ErrBadCreds         = errors.New("invalid email or password")
	ErrPasswordMismatch = errors.New("password confirmation does not match")
	ErrWeakPassword     = errors.New("password must be 8 to 72 characters")
	ErrInvalidEmail     = errors.New("invalid email address")
	ErrEngravingTooLong = errors.New("engraving text is too long")
	ErrAdminOnly        = errors.New("action reserved to administrators")
	ErrStaffOnly        = errors.New("action reserved to staff")
	ErrInvalidDateRange = errors.New("start date is after end date")
)
