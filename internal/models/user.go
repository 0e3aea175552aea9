package models

import "github.com/shopspring/decimal"

// UserType distinguishes marketplace customers from service providers
type UserType string

const (
	UserTypeCliente   UserType = "cliente"
	UserTypePrestador UserType = "prestador"
)

// Anonymization placeholders written by the erasure workflow
const (
	AnonymizedUserName     = "Usuário Anonimizado"
	AnonymizedCustomerName = "Cliente Anonimizado"
	UserStatusAnonymized   = "anonimizado"
)

// User represents the AR_USER table
type User struct {
	ID           string   `db:"USER_ID" json:"id"`
	Email        string   `db:"EMAIL" json:"email"`
	Name         string   `db:"NAME" json:"name"`
	Phone        *string  `db:"PHONE" json:"phone,omitempty"`
	CPF          *string  `db:"CPF" json:"cpf,omitempty"`
	Address      JSON     `db:"ADDRESS" json:"address,omitempty"`
	UserType     UserType `db:"USER_TYPE" json:"userType"`
	Status       string   `db:"STATUS" json:"status"`
	PasswordHash *string  `db:"PASSWORD_HASH" json:"-"`
	Anonymized   bool     `db:"ANONYMIZED" json:"anonymized"`
	AnonymizedAt *int64   `db:"ANONYMIZED_AT" json:"anonymizedAt,omitempty"`
	CreatedAt    int64    `db:"CREATED_TIME" json:"createdAt"`
	UpdatedAt    int64    `db:"UPDATED_TIME" json:"updatedAt"`
}

// UserExport is the user profile as handed out in a portability export.
// It has no credential fields at all, so nothing secret can leak through it.
type UserExport struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	Name         string   `json:"name"`
	Phone        *string  `json:"phone,omitempty"`
	CPF          *string  `json:"cpf,omitempty"`
	Address      JSON     `json:"address,omitempty"`
	UserType     UserType `json:"userType"`
	Status       string   `json:"status"`
	Anonymized   bool     `json:"anonymized"`
	AnonymizedAt *int64   `json:"anonymizedAt,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// ToExport converts the stored user into its export form
func (u *User) ToExport() *UserExport {
	return &UserExport{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		CPF:          u.CPF,
		Address:      u.Address,
		UserType:     u.UserType,
		Status:       u.Status,
		Anonymized:   u.Anonymized,
		AnonymizedAt: u.AnonymizedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Order represents the AR_ORDER table (marketplace service orders)
type Order struct {
	ID             string          `db:"ORDER_ID" json:"id"`
	CustomerID     string          `db:"CUSTOMER_ID" json:"customerId"`
	ProviderID     *string         `db:"PROVIDER_ID" json:"providerId,omitempty"`
	CustomerName   string          `db:"CUSTOMER_NAME" json:"customerName"`
	CustomerEmail  *string         `db:"CUSTOMER_EMAIL" json:"customerEmail,omitempty"`
	CustomerPhone  *string         `db:"CUSTOMER_PHONE" json:"customerPhone,omitempty"`
	CustomerCPF    *string         `db:"CUSTOMER_CPF" json:"customerCpf,omitempty"`
	ServiceAddress JSON            `db:"SERVICE_ADDRESS" json:"serviceAddress,omitempty"`
	Description    string          `db:"DESCRIPTION" json:"description"`
	Amount         decimal.Decimal `db:"AMOUNT" json:"amount"`
	Status         string          `db:"STATUS" json:"status"`
	Anonymized     bool            `db:"ANONYMIZED" json:"anonymized"`
	AnonymizedAt   *int64          `db:"ANONYMIZED_AT" json:"anonymizedAt,omitempty"`
	CreatedAt      int64           `db:"CREATED_TIME" json:"createdAt"`
	UpdatedAt      int64           `db:"UPDATED_TIME" json:"updatedAt"`
}
