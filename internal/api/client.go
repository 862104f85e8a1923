// Package api is the typed surface over the request gateway: one method per
// backend operation the finance views consume. Paths are written without the
// trailing separator; the gateway canonicalizes them on the way out.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"

	"github.com/cctrack/wallet-client/internal/core/domain"
	"github.com/cctrack/wallet-client/internal/gateway"
)

// Client issues typed backend calls through the shared gateway.
type Client struct {
	gw       *gateway.Gateway
	validate *validator.Validate
}

func NewClient(gw *gateway.Gateway) *Client {
	return &Client{gw: gw, validate: validator.New()}
}

// Auth

// Token exchanges credentials for a bearer token. Satisfies ports.AuthBackend.
func (c *Client) Token(ctx context.Context, username, password string) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	form := url.Values{"username": {username}, "password": {password}}
	if err := c.gw.PostForm(ctx, "/auth/token", form, &out); err != nil {
		return "", asAuthError(err)
	}
	if out.AccessToken == "" {
		return "", errors.New("login response missing access_token")
	}
	return out.AccessToken, nil
}

// Signup creates an account. Satisfies ports.AuthBackend.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	req := signupRequest{Username: username, Password: password}
	if err := validateInput(c.validate, req); err != nil {
		return &domain.AuthError{Detail: err.Error()}
	}
	if err := c.gw.PostJSON(ctx, "/auth/signup", req, nil); err != nil {
		return asAuthError(err)
	}
	return nil
}

// asAuthError converts a backend 4xx rejection of credentials into the
// user-facing error class; everything else (timeouts, 5xx) passes through.
func asAuthError(err error) error {
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) &&
		apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return &domain.AuthError{Detail: apiErr.Detail}
	}
	return err
}

// Cards

func (c *Client) ListCards(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := c.gw.Get(ctx, "/api/cards", &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (c *Client) CreateCard(ctx context.Context, in CardInput) (domain.Card, error) {
	var card domain.Card
	if err := validateInput(c.validate, in); err != nil {
		return card, err
	}
	err := c.gw.PostJSON(ctx, "/api/cards", in, &card)
	return card, err
}

func (c *Client) DeleteCard(ctx context.Context, id int64) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/api/cards/%d", id))
}

// Transactions

func (c *Client) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	var txs []domain.Transaction
	if err := c.gw.Get(ctx, "/api/transactions", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (domain.Transaction, error) {
	var tx domain.Transaction
	if err := validateInput(c.validate, in); err != nil {
		return tx, err
	}
	err := c.gw.PostJSON(ctx, "/api/transactions", in, &tx)
	return tx, err
}

// Lending

func (c *Client) ListLending(ctx context.Context) ([]domain.Lending, error) {
	var lendings []domain.Lending
	if err := c.gw.Get(ctx, "/api/lending", &lendings); err != nil {
		return nil, err
	}
	return lendings, nil
}

func (c *Client) CreateLending(ctx context.Context, in LendingInput) (domain.Lending, error) {
	var lending domain.Lending
	if err := validateInput(c.validate, in); err != nil {
		return lending, err
	}
	err := c.gw.PostJSON(ctx, "/api/lending", in, &lending)
	return lending, err
}

// AddLendingReturn records a partial repayment; the backend settles the
// record once returns cover the total.
func (c *Client) AddLendingReturn(ctx context.Context, lendingID int64, in LendingReturnInput) error {
	if err := validateInput(c.validate, in); err != nil {
		return err
	}
	return c.gw.PostJSON(ctx, fmt.Sprintf("/api/lending/%d/return", lendingID), in, nil)
}

// Subscriptions

func (c *Client) ListSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	var subs []domain.Subscription
	if err := c.gw.Get(ctx, "/api/subscriptions", &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) CreateSubscription(ctx context.Context, in SubscriptionInput) (domain.Subscription, error) {
	var sub domain.Subscription
	if err := validateInput(c.validate, in); err != nil {
		return sub, err
	}
	err := c.gw.PostJSON(ctx, "/api/subscriptions", in, &sub)
	return sub, err
}

func (c *Client) DeleteSubscription(ctx context.Context, id int64) error {
	return c.gw.Delete(ctx, fmt.Sprintf("/api/subscriptions/%d", id))
}

// Salary

func (c *Client) ListSalaryCompanies(ctx context.Context) ([]domain.SalaryCompany, error) {
	var companies []domain.SalaryCompany
	if err := c.gw.Get(ctx, "/api/salary/companies", &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (c *Client) CreateSalaryCompany(ctx context.Context, in CompanyInput) (domain.SalaryCompany, error) {
	var company domain.SalaryCompany
	if err := validateInput(c.validate, in); err != nil {
		return company, err
	}
	err := c.gw.PostJSON(ctx, "/api/salary/companies", in, &company)
	return company, err
}

func (c *Client) AddSalarySlip(ctx context.Context, in SalarySlipInput) (domain.SalarySlip, error) {
	var slip domain.SalarySlip
	if err := validateInput(c.validate, in); err != nil {
		return slip, err
	}
	err := c.gw.PostJSON(ctx, "/api/salary/slips", in, &slip)
	return slip, err
}

// Dashboard & settings

func (c *Client) Dashboard(ctx context.Context) (domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := c.gw.Get(ctx, "/api/dashboard", &stats)
	return stats, err
}

func (c *Client) GetSettings(ctx context.Context) (domain.Settings, error) {
	var settings domain.Settings
	err := c.gw.Get(ctx, "/api/settings", &settings)
	return settings, err
}

func (c *Client) UpdateSettings(ctx context.Context, in SettingsInput) (domain.Settings, error) {
	var settings domain.Settings
	if err := validateInput(c.validate, in); err != nil {
		return settings, err
	}
	err := c.gw.PutJSON(ctx, "/api/settings", in, &settings)
	return settings, err
}

// TestNotify asks the backend to push a test notification to the configured
// ntfy topic.
func (c *Client) TestNotify(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	err := c.gw.PostJSON(ctx, "/api/settings/test-ntfy", nil, &out)
	return out.Message, err
}
