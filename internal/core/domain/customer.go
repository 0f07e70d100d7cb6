// internal/core/domain/customer.go
package domain

import (
	"fmt"
	"strings"
)

// Customer is a POS customer as returned by the customer list endpoint.
// The remote backend owns it; modals only hold read-only copies.
type Customer struct {
	ID          int64     `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Address     string    `json:"address,omitempty"`
	Telephone   string    `json:"telephone,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// FullName joins first and last name, skipping empty parts.
func (c Customer) FullName() string {
	return joinName(c.FirstName, c.LastName)
}

// CustomerInput is the payload of the customer create/update calls.
type CustomerInput struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	Telephone   string `json:"telephone"`
	Description string `json:"description"`
	UpdatedBy   *int64 `json:"updated_by,omitempty"`
}

// Validate performs domain validation on the customer input
func (in *CustomerInput) Validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if in.FirstName == "" {
		return fmt.Errorf("%w: first_name is required", ErrInvalidInput)
	}
	return nil
}

func joinName(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}
