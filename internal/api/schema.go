package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Request payloads are validated client-side before any network round trip,
// so a form can reject bad input without burning a request.

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

// CardInput is the payload for creating a card.
type CardInput struct {
	Name           string  `json:"name" validate:"required"`
	BankName       string  `json:"bank_name" validate:"required"`
	CardNetwork    string  `json:"card_network" validate:"required"`
	CardType       string  `json:"card_type" validate:"required,oneof=Credit Debit"`
	CardNumber     string  `json:"card_number" validate:"required,min=12"`
	CVV            string  `json:"cvv,omitempty" validate:"omitempty,len=3"`
	ExpiryDate     string  `json:"expiry_date" validate:"required"`
	OwnerName      string  `json:"owner_name" validate:"required"`
	Limit          float64 `json:"limit" validate:"gt=0"`
	StatementDate  int     `json:"statement_date,omitempty" validate:"omitempty,min=1,max=31"`
	PaymentDueDate int     `json:"payment_due_date,omitempty" validate:"omitempty,min=1,max=31"`
	ColorTheme     string  `json:"color_theme"`
}

// TransactionInput is the payload for recording an expense or credit.
type TransactionInput struct {
	Description      string     `json:"description" validate:"required"`
	Amount           float64    `json:"amount" validate:"gt=0"`
	Type             string     `json:"type" validate:"required,oneof=expense credit"`
	Date             *time.Time `json:"date,omitempty"`
	CardID           int64      `json:"card_id,omitempty"`
	MerchantLocation string     `json:"merchant_location,omitempty"`
}

// LendingInput is the payload for recording lent money.
type LendingInput struct {
	PersonName  string     `json:"person_name" validate:"required"`
	TotalAmount float64    `json:"total_amount" validate:"gt=0"`
	LentDate    *time.Time `json:"lent_date,omitempty"`
}

// LendingReturnInput records a partial repayment.
type LendingReturnInput struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// SubscriptionInput is the payload for adding a recurring charge.
type SubscriptionInput struct {
	Name   string  `json:"name" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
	Active bool    `json:"active"`
}

// CompanyInput is the payload for adding an employer.
type CompanyInput struct {
	Name          string     `json:"name" validate:"required"`
	JoiningDate   time.Time  `json:"joining_date" validate:"required"`
	RelievingDate *time.Time `json:"relieving_date,omitempty"`
	IsCurrent     bool       `json:"is_current"`
}

// SalarySlipInput is the payload for recording one month's salary.
type SalarySlipInput struct {
	Amount    float64 `json:"amount" validate:"gt=0"`
	Month     string  `json:"month" validate:"required"`
	Year      int     `json:"year" validate:"min=2000"`
	CompanyID int64   `json:"company_id" validate:"required"`
}

// SettingsInput is the payload for updating user settings.
type SettingsInput struct {
	Currency  string `json:"currency" validate:"required"`
	NtfyURL   string `json:"ntfy_url,omitempty" validate:"omitempty,url"`
	NtfyTopic string `json:"ntfy_topic,omitempty"`
}

// validateInput runs struct validation and flattens the result into one
// human-readable message.
func validateInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return err
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
