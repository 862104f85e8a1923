package domain

import "time"

// Server-backed records rendered by the client. The backend is the system of
// record; these are read models replaced wholesale on every refresh.

// Statement is one billing cycle recorded against a card.
type Statement struct {
	ID             int64      `json:"id"`
	Month          string     `json:"month"`
	GeneratedDate  time.Time  `json:"generated_date"`
	DueDate        time.Time  `json:"due_date"`
	TotalDue       float64    `json:"total_due"`
	MinDue         float64    `json:"min_due"`
	IsPaid         bool       `json:"is_paid"`
	PaidAmount     float64    `json:"paid_amount"`
	PaidDate       *time.Time `json:"paid_date,omitempty"`
	PaymentRef     string     `json:"payment_ref,omitempty"`
	AttachmentPath string     `json:"attachment_path,omitempty"`
}

// Card is a stored payment card with its statement history.
type Card struct {
	ID              int64       `json:"id"`
	Name            string      `json:"name"`
	BankName        string      `json:"bank_name"`
	CardNetwork     string      `json:"card_network"`
	CardType        string      `json:"card_type"`
	CardNumber      string      `json:"card_number"`
	CardNumberLast4 string      `json:"card_number_last4"`
	CVV             string      `json:"cvv,omitempty"`
	ExpiryDate      string      `json:"expiry_date"`
	OwnerName       string      `json:"owner_name"`
	Limit           float64     `json:"limit"`
	StatementDate   int         `json:"statement_date,omitempty"`
	PaymentDueDate  int         `json:"payment_due_date,omitempty"`
	FrontImagePath  string      `json:"front_image_path,omitempty"`
	BackImagePath   string      `json:"back_image_path,omitempty"`
	ColorTheme      string      `json:"color_theme"`
	Statements      []Statement `json:"statements"`
}

// Transaction is a single expense or credit entry.
type Transaction struct {
	ID               int64     `json:"id"`
	Description      string    `json:"description"`
	Amount           float64   `json:"amount"`
	Type             string    `json:"type"` // "expense" or "credit"
	Date             time.Time `json:"date"`
	CardID           int64     `json:"card_id,omitempty"`
	MerchantLocation string    `json:"merchant_location,omitempty"`
}

// LendingReturn is a partial repayment against a lending record.
type LendingReturn struct {
	ID             int64     `json:"id"`
	Amount         float64   `json:"amount"`
	ReturnDate     time.Time `json:"return_date"`
	ProofImagePath string    `json:"proof_image_path,omitempty"`
}

// Lending tracks money lent to a person until settled.
type Lending struct {
	ID          int64           `json:"id"`
	PersonName  string          `json:"person_name"`
	TotalAmount float64         `json:"total_amount"`
	LentDate    time.Time       `json:"lent_date"`
	IsSettled   bool            `json:"is_settled"`
	Returns     []LendingReturn `json:"returns"`
}

// Outstanding returns the amount still owed on this lending record.
func (l Lending) Outstanding() float64 {
	returned := 0.0
	for _, r := range l.Returns {
		returned += r.Amount
	}
	return l.TotalAmount - returned
}

// Subscription is a recurring monthly charge.
type Subscription struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Active bool    `json:"active"`
}

// SalaryCompany is an employer attached to salary slips.
type SalaryCompany struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	LogoPath      string     `json:"logo_path,omitempty"`
	JoiningDate   time.Time  `json:"joining_date"`
	RelievingDate *time.Time `json:"relieving_date,omitempty"`
	IsCurrent     bool       `json:"is_current"`
}

// SalarySlip is one month's credited salary for a company.
type SalarySlip struct {
	ID             int64     `json:"id"`
	Amount         float64   `json:"amount"`
	Month          string    `json:"month"`
	Year           int       `json:"year"`
	CompanyID      int64     `json:"company_id"`
	AttachmentPath string    `json:"attachment_path,omitempty"`
	DateAdded      time.Time `json:"date_added"`
}

// DashboardStats is the aggregate summary for the landing view.
type DashboardStats struct {
	CardCount            int     `json:"card_count"`
	TransactionCount     int     `json:"transaction_count"`
	ActiveLendingCount   int     `json:"active_lending_count"`
	PendingLendingAmount float64 `json:"pending_lending_amount"`
	MonthlySubs          float64 `json:"monthly_subs"`
	LastSalary           float64 `json:"last_salary"`
}

// Settings is the per-user configuration record, including the optional
// ntfy push-notification target.
type Settings struct {
	Username  string `json:"username"`
	Currency  string `json:"currency"`
	NtfyURL   string `json:"ntfy_url,omitempty"`
	NtfyTopic string `json:"ntfy_topic,omitempty"`
}
