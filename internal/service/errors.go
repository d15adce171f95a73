// Package service implements the booking marketplace's use cases on top
// of the repositories. Each service depends on small interfaces declared
// next to it and reports failures through the sentinels below, wrapped
// with the operation name.
package service

import "errors"

var (
	ErrScreenNotFound   = errors.New("screen not found")
	ErrContentNotFound  = errors.New("content not found")
	ErrBookingNotFound  = errors.New("booking not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrForbidden        = errors.New("forbidden")
	ErrNotPending       = errors.New("booking is not pending")
	ErrInvalidSchedule  = errors.New("invalid schedule")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrUnsupportedMedia = errors.New("file must be an image or video")
	ErrFileTooLarge     = errors.New("file too large")
	ErrPaymentFailed    = errors.New("payment failed")
)
