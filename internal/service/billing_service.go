package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-chat-be/internal/config"
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
	"ai-chat-be/pkg/events"
	pktNats "ai-chat-be/pkg/nats"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stripe/stripe-go/v79"
	portalsession "github.com/stripe/stripe-go/v79/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	stripesub "github.com/stripe/stripe-go/v79/subscription"
	"github.com/stripe/stripe-go/v79/webhook"
)

// subscriptionGrace extends an expired billing period by one day so a
// renewal payment in flight does not lock the user out.
const subscriptionGrace = 24 * time.Hour

// isSubscriptionActive reports whether the user's stored billing period,
// extended by the grace window, still covers now.
func isSubscriptionActive(user *entity.User) bool {
	if user == nil || user.StripeCurrentPeriodEnd == nil {
		return false
	}
	return user.StripeCurrentPeriodEnd.Add(subscriptionGrace).After(time.Now())
}

type IBillingService interface {
	CreateCheckoutSession(ctx context.Context, userId uuid.UUID) (*dto.CheckoutSessionResponse, error)
	CreatePortalSession(ctx context.Context, userId uuid.UUID) (*dto.PortalSessionResponse, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
	IsSubscribed(ctx context.Context, userId uuid.UUID) (bool, error)
}

type billingService struct {
	uowFactory     unitofwork.RepositoryFactory
	cfg            config.BillingConfig
	clientURL      string
	eventPublisher *pktNats.Publisher
	subCache       *gocache.Cache
}

func NewBillingService(
	uowFactory unitofwork.RepositoryFactory,
	cfg config.BillingConfig,
	clientURL string,
	eventPublisher *pktNats.Publisher,
) IBillingService {
	stripe.Key = cfg.StripeSecretKey

	return &billingService{
		uowFactory:     uowFactory,
		cfg:            cfg,
		clientURL:      strings.TrimRight(clientURL, "/"),
		eventPublisher: eventPublisher,
		subCache:       gocache.New(time.Minute, 5*time.Minute),
	}
}

// ensureCustomer finds or creates the Stripe customer for a user and
// stores the id on the user row.
func (s *billingService) ensureCustomer(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User) (string, error) {
	if user.StripeCustomerId != nil && *user.StripeCustomerId != "" {
		return *user.StripeCustomerId, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": user.Id.String(),
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("create stripe customer: %w", err)
	}

	user.StripeCustomerId = &cust.ID
	if err := uow.UserRepository().UpdateSubscription(ctx, user.Id, user); err != nil {
		return "", err
	}

	return cust.ID, nil
}

func (s *billingService) CreateCheckoutSession(ctx context.Context, userId uuid.UUID) (*dto.CheckoutSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	customerId, err := s.ensureCustomer(ctx, uow, user)
	if err != nil {
		return nil, err
	}

	// Existing subscribers manage their plan through the portal instead
	// of stacking a second subscription.
	if isSubscriptionActive(user) {
		sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
			Customer:  stripe.String(customerId),
			ReturnURL: stripe.String(s.clientURL + "/settings/billing"),
		})
		if err != nil {
			return nil, fmt.Errorf("create portal session: %w", err)
		}
		return &dto.CheckoutSessionResponse{Url: sess.URL}, nil
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerId),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.StripeProPriceId),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.clientURL + "/billing/success"),
		CancelURL:  stripe.String(s.clientURL + "/billing/cancel"),
		Metadata: map[string]string{
			"user_id": user.Id.String(),
		},
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return &dto.CheckoutSessionResponse{Url: sess.URL}, nil
}

func (s *billingService) CreatePortalSession(ctx context.Context, userId uuid.UUID) (*dto.PortalSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.StripeCustomerId == nil || *user.StripeCustomerId == "" {
		return nil, errors.New("stripe customer missing for user")
	}

	sess, err := portalsession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerId),
		ReturnURL: stripe.String(s.clientURL + "/settings/billing"),
	})
	if err != nil {
		return nil, fmt.Errorf("create portal session: %w", err)
	}

	return &dto.PortalSessionResponse{Url: sess.URL}, nil
}

func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
	)
	if err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return fmt.Errorf("invalid session payload: %w", err)
		}
		if sess.Customer == nil || sess.Subscription == nil {
			return errors.New("session missing customer or subscription")
		}
		return s.applySubscription(ctx, sess.Customer.ID, sess.Subscription.ID, events.SubscriptionActivated)

	case "invoice.payment_succeeded":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("invalid invoice payload: %w", err)
		}
		if invoice.Customer == nil || invoice.Subscription == nil {
			// One-off invoices carry no subscription; nothing to do.
			return nil
		}
		return s.applySubscription(ctx, invoice.Customer.ID, invoice.Subscription.ID, events.SubscriptionRenewed)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("invalid subscription payload: %w", err)
		}
		if sub.Customer == nil {
			return errors.New("subscription missing customer")
		}
		return s.clearSubscription(ctx, sub.Customer.ID)
	}

	// Unhandled event types are acknowledged without action.
	return nil
}

// applySubscription fetches the live subscription and stores its state on
// the owning user.
func (s *billingService) applySubscription(ctx context.Context, customerId, subscriptionId, eventType string) error {
	sub, err := stripesub.Get(subscriptionId, nil)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", subscriptionId, err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByStripeCustomerId{CustomerId: customerId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user for stripe customer %s", customerId)
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	var priceId *string
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		priceId = &sub.Items.Data[0].Price.ID
	}

	user.StripeCustomerId = &customerId
	user.StripeSubscriptionId = &sub.ID
	user.StripePriceId = priceId
	user.StripeCurrentPeriodEnd = &periodEnd

	if err := uow.UserRepository().UpdateSubscription(ctx, user.Id, user); err != nil {
		return err
	}

	s.subCache.Delete(user.Id.String())
	s.publishLifecycleEvent(ctx, eventType, user.Id, map[string]interface{}{
		"period_end": periodEnd.Format(time.RFC3339),
	})
	return nil
}

func (s *billingService) clearSubscription(ctx context.Context, customerId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByStripeCustomerId{CustomerId: customerId})
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("no user for stripe customer %s", customerId)
	}

	user.StripeSubscriptionId = nil
	user.StripePriceId = nil
	user.StripeCurrentPeriodEnd = nil

	if err := uow.UserRepository().UpdateSubscription(ctx, user.Id, user); err != nil {
		return err
	}

	s.subCache.Delete(user.Id.String())
	s.publishLifecycleEvent(ctx, events.SubscriptionCanceled, user.Id, nil)
	return nil
}

func (s *billingService) publishLifecycleEvent(ctx context.Context, eventType string, userId uuid.UUID, details map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.NewSubscriptionEvent(eventType, userId.String(), details)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
	}
}

func (s *billingService) IsSubscribed(ctx context.Context, userId uuid.UUID) (bool, error) {
	if cached, found := s.subCache.Get(userId.String()); found {
		return cached.(bool), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrNotFound
	}

	active := isSubscriptionActive(user)
	s.subCache.Set(userId.String(), active, gocache.DefaultExpiration)
	return active, nil
}
