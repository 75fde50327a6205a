package service

import (
	"testing"
	"time"

	"ai-chat-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func userWithPeriodEnd(end time.Time) *entity.User {
	return &entity.User{StripeCurrentPeriodEnd: &end}
}

func TestIsSubscriptionActive(t *testing.T) {
	t.Run("nil user is inactive", func(t *testing.T) {
		assert.False(t, isSubscriptionActive(nil))
	})

	t.Run("user without billing period is inactive", func(t *testing.T) {
		assert.False(t, isSubscriptionActive(&entity.User{}))
	})

	t.Run("period end in the future is active", func(t *testing.T) {
		user := userWithPeriodEnd(time.Now().Add(72 * time.Hour))
		assert.True(t, isSubscriptionActive(user))
	})

	t.Run("period ended within the grace window is still active", func(t *testing.T) {
		user := userWithPeriodEnd(time.Now().Add(-23 * time.Hour))
		assert.True(t, isSubscriptionActive(user))
	})

	t.Run("period ended past the grace window is inactive", func(t *testing.T) {
		user := userWithPeriodEnd(time.Now().Add(-25 * time.Hour))
		assert.False(t, isSubscriptionActive(user))
	})
}
