package service

import "errors"

// Sentinel errors controllers translate into HTTP statuses.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrQuotaExceeded        = errors.New("free tier message limit reached")
	ErrSubscriptionRequired = errors.New("active subscription required")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailNotVerified     = errors.New("email not verified. please check your inbox for the otp code")
	ErrUnsupportedDocument  = errors.New("unsupported document type")
)
