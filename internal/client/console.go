package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/licensehub/console-gateway/internal/core/domain"
	"github.com/licensehub/console-gateway/internal/core/service"
)

// Console performs the console's operations with the stored session.
type Console struct {
	api   *Client
	store SessionStore
	now   func() time.Time
}

func NewConsole(api *Client, store SessionStore) *Console {
	return &Console{api: api, store: store, now: time.Now}
}

// Login exchanges credentials for a token and stores the session.
func (c *Console) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	var resp domain.LoginResponse
	if err := c.api.Post(ctx, "/auth/login", creds, "", &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Kind: KindMalformedResponse, StatusCode: 200, Message: "login response carried no token"}
	}

	if err := c.store.Set(ctx, Session{Token: resp.Token, User: resp.User}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &resp, nil
}

// Logout forgets the stored session.
func (c *Console) Logout(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Session returns the stored session. An expired one is cleared.
func (c *Console) Session(ctx context.Context) (*Session, error) {
	s, err := c.store.Get(ctx)
	if err != nil {
		return nil, err
	}
	if s.Expired(c.now()) {
		if err := c.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("clear expired session: %w", err)
		}
		return nil, ErrSessionExpired
	}
	return s, nil
}

func (c *Console) token(ctx context.Context) (string, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return "", err
	}
	return s.Token, nil
}

// ---------------------------------------------------------------------------
// Partners
// ---------------------------------------------------------------------------

func (c *Console) Partners(ctx context.Context) ([]domain.Partner, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var partners []domain.Partner
	if err := c.api.Get(ctx, "/partner", token, &partners); err != nil {
		return nil, err
	}
	return partners, nil
}

func (c *Console) Partner(ctx context.Context, id string) (*domain.Partner, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.api.Get(ctx, "/partner/"+url.PathEscape(id), token, &raw); err != nil {
		return nil, err
	}
	return partnerFrom(raw)
}

func (c *Console) CreatePartner(ctx context.Context, in domain.PartnerInput) (*domain.Partner, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.api.Post(ctx, "/partner", in, token, &raw); err != nil {
		return nil, err
	}
	return partnerFrom(raw)
}

func (c *Console) UpdatePartner(ctx context.Context, id string, in domain.PartnerInput) (*domain.Partner, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	if err := c.api.Put(ctx, "/partner/"+url.PathEscape(id), in, token, &raw); err != nil {
		return nil, err
	}
	return partnerFrom(raw)
}

// SuspendPartner soft-deletes a partner and returns the confirmation message.
func (c *Console) SuspendPartner(ctx context.Context, id string) (string, error) {
	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.api.Delete(ctx, "/partner/"+url.PathEscape(id), token, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// partnerFrom accepts a bare partner or one nested under "data" or "partner",
// which is how wrapped gateway answers and backend envelopes carry it.
func partnerFrom(raw json.RawMessage) (*domain.Partner, error) {
	for depth := 0; depth < 3; depth++ {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(raw, &env); err != nil {
			break
		}
		if inner, ok := env["data"]; ok {
			raw = inner
			continue
		}
		if inner, ok := env["partner"]; ok {
			raw = inner
			continue
		}
		break
	}

	var p domain.Partner
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &APIError{Kind: KindMalformedResponse, StatusCode: 200, Message: malformedMessage, cause: err}
	}
	return &p, nil
}

// ---------------------------------------------------------------------------
// Subscription plans
// ---------------------------------------------------------------------------

func (c *Console) Plans(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var plans []domain.SubscriptionPlan
	if err := c.api.Get(ctx, "/subscription-plan", token, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Console) CreatePlan(ctx context.Context, in domain.PlanInput) (*domain.SubscriptionPlan, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}
	var plan domain.SubscriptionPlan
	if err := c.api.Post(ctx, "/subscription-plan", in, token, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ---------------------------------------------------------------------------
// Licenses
// ---------------------------------------------------------------------------

// Licenses lists the licenses visible to the logged-in user. The role and
// tenant hints default to "unknown" and "null" when the user has none.
func (c *Console) Licenses(ctx context.Context) ([]domain.License, error) {
	s, err := c.Session(ctx)
	if err != nil {
		return nil, err
	}

	role, partnerID := s.User.Role, s.User.PartnerID
	if role == "" {
		role = "unknown"
	}
	if partnerID == "" {
		partnerID = "null"
	}

	var licenses []domain.License
	err = c.api.Do(ctx, http.MethodGet, "/license", RequestOptions{
		Token: s.Token,
		Headers: map[string]string{
			"X-User-Role":       role,
			"X-User-Partner-Id": partnerID,
		},
	}, &licenses)
	if err != nil {
		return nil, err
	}
	return licenses, nil
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// Summary is the dashboard overview.
type Summary struct {
	Partners service.PartnerStats `json:"partners"`
	Plans    int                  `json:"plans"`
}

// Summary fetches partners and plans. A plan failure leaves the plan count
// at zero; a partner failure fails the whole summary.
func (c *Console) Summary(ctx context.Context) (*Summary, error) {
	partners, err := c.Partners(ctx)
	if err != nil {
		return nil, err
	}
	sum := &Summary{Partners: service.CountPartners(partners)}

	plans, err := c.Plans(ctx)
	if err != nil {
		var ae *APIError
		if !errors.As(err, &ae) {
			return nil, err
		}
		return sum, nil
	}
	sum.Plans = len(plans)
	return sum, nil
}
