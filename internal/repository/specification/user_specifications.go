package specification

import (
	"gorm.io/gorm"
)

// ByEmail filters users by email (case-sensitive, emails are stored lowercased)
type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

// ByProvider filters user providers by name and external id
type ByProvider struct {
	ProviderName   string
	ProviderUserId string
}

func (s ByProvider) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("provider_name = ? AND provider_user_id = ?", s.ProviderName, s.ProviderUserId)
}

// ByToken filters OTP / reset token rows by their raw token value
type ByToken struct {
	Token string
}

func (s ByToken) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("token = ?", s.Token)
}

// ByStripeCustomerId resolves the user a billing webhook refers to
type ByStripeCustomerId struct {
	CustomerId string
}

func (s ByStripeCustomerId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_customer_id = ?", s.CustomerId)
}
