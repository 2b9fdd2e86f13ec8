package console

import (
	"io"
	"net/url"
	"strconv"
	"time"
)

// Resource holds the fields common to every backend record.
type Resource struct {
	ID        string    `json:"id"         yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// Pagination represents pagination information.
type Pagination struct {
	Page       int `json:"page"        yaml:"page"`
	PerPage    int `json:"per_page"    yaml:"per_page"`
	Total      int `json:"total"       yaml:"total"`
	TotalPages int `json:"total_pages" yaml:"total_pages"`
}

// ListResponse represents a paginated list response.
type ListResponse[T any] struct {
	Data       []T        `json:"data"       yaml:"data"`
	Pagination Pagination `json:"pagination" yaml:"pagination"`
}

// QueryParams are the list filters understood by every list endpoint.
type QueryParams struct {
	Page    int
	PerPage int
	Search  string
	Status  string
	Filters map[string]string
}

// ToValues converts the params to URL query values.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}
	if p == nil {
		return values
	}

	if p.Page > 0 {
		values.Set("page", strconv.Itoa(p.Page))
	}

	if p.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(p.PerPage))
	}

	if p.Search != "" {
		values.Set("search", p.Search)
	}

	if p.Status != "" {
		values.Set("status", p.Status)
	}

	for key, value := range p.Filters {
		values.Set(key, value)
	}

	return values
}

// User is the authenticated console operator.
type User struct {
	Resource `yaml:",inline"`

	Name   string `json:"name"   yaml:"name"`
	Email  string `json:"email"  yaml:"email"`
	Role   string `json:"role"   yaml:"role"`
	Portal Portal `json:"portal" yaml:"portal"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string `json:"token" yaml:"token"`
	User  User   `json:"user"  yaml:"user"`
}

// Farmer is a registered farmer.
type Farmer struct {
	Resource `yaml:",inline"`

	FirstName   string  `json:"first_name"   yaml:"first_name"`
	LastName    string  `json:"last_name"    yaml:"last_name"`
	Phone       string  `json:"phone"        yaml:"phone"`
	NationalID  string  `json:"national_id"  yaml:"national_id"`
	Village     string  `json:"village"      yaml:"village"`
	Cooperative string  `json:"cooperative"  yaml:"cooperative"`
	FarmSizeHa  float64 `json:"farm_size_ha" yaml:"farm_size_ha"`
	Status      string  `json:"status"       yaml:"status"`
}

// FarmerCreateRequest creates a farmer.
type FarmerCreateRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	NationalID  string  `json:"national_id,omitempty"`
	Village     string  `json:"village,omitempty"`
	Cooperative string  `json:"cooperative,omitempty"`
	FarmSizeHa  float64 `json:"farm_size_ha,omitempty" validate:"gte=0"`
}

// FarmerUpdateRequest updates a farmer; nil fields are left unchanged.
type FarmerUpdateRequest struct {
	Phone       *string  `json:"phone,omitempty"`
	Village     *string  `json:"village,omitempty"`
	Cooperative *string  `json:"cooperative,omitempty"`
	FarmSizeHa  *float64 `json:"farm_size_ha,omitempty" validate:"omitempty,gte=0"`
	Status      *string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
}

// Document is a file attached to a farmer record.
type Document struct {
	Resource `yaml:",inline"`

	FarmerID string `json:"farmer_id" yaml:"farmer_id"`
	FileName string `json:"file_name" yaml:"file_name"`
	URL      string `json:"url"       yaml:"url"`
}

// FileUpload describes one file sent through the upload path.
type FileUpload struct {
	// FieldName is the multipart form field. Defaults to "file".
	FieldName string
	// FileName is the name reported to the server.
	FileName string
	// ContentType is the part MIME type; empty means application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data []byte
	// Reader streams the content for large files.
	Reader io.Reader
}

// Purchase records produce bought from a farmer.
type Purchase struct {
	Resource `yaml:",inline"`

	FarmerID    string  `json:"farmer_id"    yaml:"farmer_id"`
	Commodity   string  `json:"commodity"    yaml:"commodity"`
	QuantityKg  float64 `json:"quantity_kg"  yaml:"quantity_kg"`
	PricePerKg  float64 `json:"price_per_kg" yaml:"price_per_kg"`
	TotalAmount float64 `json:"total_amount" yaml:"total_amount"`
	Status      string  `json:"status"       yaml:"status"`
}

// PurchaseCreateRequest records a purchase.
type PurchaseCreateRequest struct {
	FarmerID   string  `json:"farmer_id" validate:"required"`
	Commodity  string  `json:"commodity" validate:"required"`
	QuantityKg float64 `json:"quantity_kg" validate:"gt=0"`
	PricePerKg float64 `json:"price_per_kg" validate:"gt=0"`
}

// Loan is credit extended to a farmer.
type Loan struct {
	Resource `yaml:",inline"`

	FarmerID     string     `json:"farmer_id"               yaml:"farmer_id"`
	Principal    float64    `json:"principal"               yaml:"principal"`
	InterestRate float64    `json:"interest_rate"           yaml:"interest_rate"`
	Balance      float64    `json:"balance"                 yaml:"balance"`
	Status       string     `json:"status"                  yaml:"status"`
	DueDate      *time.Time `json:"due_date,omitempty"      yaml:"due_date,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"   yaml:"approved_at,omitempty"`
}

// LoanCreateRequest opens a loan application.
type LoanCreateRequest struct {
	FarmerID     string  `json:"farmer_id" validate:"required"`
	Principal    float64 `json:"principal" validate:"gt=0"`
	InterestRate float64 `json:"interest_rate" validate:"gte=0"`
	TermMonths   int     `json:"term_months" validate:"gt=0"`
}

// LoanRepaymentRequest records a repayment.
type LoanRepaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
}

// StaffMember is a console or field staff account.
type StaffMember struct {
	Resource `yaml:",inline"`

	Name   string  `json:"name"     yaml:"name"`
	Email  string  `json:"email"    yaml:"email"`
	Phone  string  `json:"phone"    yaml:"phone"`
	Role   string  `json:"role"     yaml:"role"`
	Salary float64 `json:"salary"   yaml:"salary"`
	Active bool    `json:"active"   yaml:"active"`
}

// StaffCreateRequest creates a staff member.
type StaffCreateRequest struct {
	Name   string  `json:"name" validate:"required"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  string  `json:"phone,omitempty"`
	Role   string  `json:"role" validate:"required"`
	Salary float64 `json:"salary" validate:"gte=0"`
}

// StaffUpdateRequest updates a staff member; nil fields are left unchanged.
type StaffUpdateRequest struct {
	Phone  *string  `json:"phone,omitempty"`
	Role   *string  `json:"role,omitempty"`
	Salary *float64 `json:"salary,omitempty" validate:"omitempty,gte=0"`
	Active *bool    `json:"active,omitempty"`
}

// PayrollEntry is one staff member's pay for a month.
type PayrollEntry struct {
	StaffID    string     `json:"staff_id"          yaml:"staff_id"`
	StaffName  string     `json:"staff_name"        yaml:"staff_name"`
	Month      string     `json:"month"             yaml:"month"`
	Gross      float64    `json:"gross"             yaml:"gross"`
	Deductions float64    `json:"deductions"        yaml:"deductions"`
	Net        float64    `json:"net"               yaml:"net"`
	Status     string     `json:"status"            yaml:"status"`
	PaidAt     *time.Time `json:"paid_at,omitempty" yaml:"paid_at,omitempty"`
}

// Transaction is a ledger entry.
type Transaction struct {
	Resource `yaml:",inline"`

	Type      string  `json:"type"      yaml:"type"`
	Amount    float64 `json:"amount"    yaml:"amount"`
	Currency  string  `json:"currency"  yaml:"currency"`
	FarmerID  string  `json:"farmer_id" yaml:"farmer_id"`
	Reference string  `json:"reference" yaml:"reference"`
	Status    string  `json:"status"    yaml:"status"`
}
