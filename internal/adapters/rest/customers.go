// internal/adapters/rest/customers.go
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// CustomerRepository implements ports.CustomerRepository against /pos.
type CustomerRepository struct {
	client *Client
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(client *Client) *CustomerRepository {
	return &CustomerRepository{client: client}
}

var _ ports.CustomerRepository = (*CustomerRepository)(nil)

// ListCustomers calls GET /pos/customers?page&limit&search.
func (r *CustomerRepository) ListCustomers(ctx context.Context, params ports.ListParams) (domain.Page[domain.Customer], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(max(params.Page, 1)))
	query.Set("limit", strconv.Itoa(params.PageSize))
	if params.Query != "" {
		query.Set("search", params.Query)
	}

	page, err := fetchPage[domain.Customer](ctx, r.client, "/pos/customers", query, params)
	if err != nil {
		return domain.Page[domain.Customer]{}, fmt.Errorf("failed to list customers: %w", err)
	}
	return page, nil
}

// CreateCustomer calls POST /pos/customer.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, in domain.CustomerInput) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	body, err := r.client.do(ctx, http.MethodPost, "/pos/customer", nil, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return decodeCustomer(body)
}

// UpdateCustomer calls PATCH /pos/customer/{id}.
func (r *CustomerRepository) UpdateCustomer(ctx context.Context, id int64, in domain.CustomerInput) (*domain.Customer, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	path := "/pos/customer/" + strconv.FormatInt(id, 10)
	body, err := r.client.do(ctx, http.MethodPatch, path, nil, in)
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %d: %w", id, err)
	}
	return decodeCustomer(body)
}

// decodeCustomer accepts the customer itself or {data: customer}.
func decodeCustomer(body []byte) (*domain.Customer, error) {
	var env struct {
		Data *domain.Customer `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}

	var c domain.Customer
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &c, nil
}
