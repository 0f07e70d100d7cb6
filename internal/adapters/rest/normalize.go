// internal/adapters/rest/normalize.go
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/NavodaLakshika/erp-frontend/internal/core/domain"
	"github.com/NavodaLakshika/erp-frontend/internal/core/ports"
)

// envelope covers {data: [...], total|count} and {data: {data: [...]}}.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Total *int            `json:"total"`
	Count *int            `json:"count"`
}

// decodeList accepts a bare array or a data envelope nested at most twice.
// When the payload carries no total, the row count is used.
func decodeList[T any](body []byte) (domain.Page[T], error) {
	return decodeListDepth[T](body, 2)
}

func decodeListDepth[T any](body []byte, depth int) (domain.Page[T], error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Page[T]{}, fmt.Errorf("%w: empty body", domain.ErrMalformedResponse)
	}

	switch body[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return domain.Page[T]{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		return domain.Page[T]{Items: items, Total: len(items)}, nil

	case '{':
		if depth == 0 {
			return domain.Page[T]{}, fmt.Errorf("%w: envelope nested too deep", domain.ErrMalformedResponse)
		}
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return domain.Page[T]{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
		if len(env.Data) == 0 || string(env.Data) == "null" {
			return domain.Page[T]{}, fmt.Errorf("%w: missing data field", domain.ErrMalformedResponse)
		}

		page, err := decodeListDepth[T](env.Data, depth-1)
		if err != nil {
			return page, err
		}
		switch {
		case env.Total != nil:
			page.Total = *env.Total
		case env.Count != nil:
			page.Total = *env.Count
		}
		if page.Total < len(page.Items) {
			page.Total = len(page.Items)
		}
		return page, nil
	}

	return domain.Page[T]{}, fmt.Errorf("%w: unexpected payload", domain.ErrMalformedResponse)
}

// fitPage trims a result to the requested page when the endpoint ignored
// the paging parameters and returned everything.
func fitPage[T any](page domain.Page[T], params ports.ListParams) domain.Page[T] {
	if params.PageSize <= 0 || len(page.Items) <= params.PageSize {
		return page
	}
	if page.Total < len(page.Items) {
		page.Total = len(page.Items)
	}
	start, end := domain.PageBounds(params.Page, params.PageSize, len(page.Items))
	page.Items = page.Items[start:end]
	return page
}

// fetchPage GETs path and normalizes the result. A malformed payload is
// logged and yields an empty page; only transport and status failures are
// returned as errors.
func fetchPage[T any](ctx context.Context, c *Client, path string, query url.Values,
	params ports.ListParams) (domain.Page[T], error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return domain.Page[T]{}, err
	}

	page, err := decodeList[T](body)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedResponse) {
			c.logger.WarnContext(ctx, "unrecognized list payload",
				slog.String("path", path),
				slog.String("error", err.Error()))
			return domain.Page[T]{Items: []T{}}, nil
		}
		return domain.Page[T]{}, err
	}
	if page.Items == nil {
		page.Items = []T{}
	}

	return fitPage(page, params), nil
}

// fetchAll is fetchPage for unpaged endpoints.
func fetchAll[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	page, err := fetchPage[T](ctx, c, path, nil, ports.ListParams{})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}
