package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/avantolog/avanto/pkg/domain"
)

// DefaultPerPage is the page size used when the caller passes perPage <= 0.
const DefaultPerPage = 10

var validate = validator.New()

// CreateIceBathRequest is the payload for logging a new session.
//
// Optional numerics are pointers without omitempty: an empty form field
// serializes as an explicit null, never as 0 or "", so server-side averages
// stay uncorrupted.
type CreateIceBathRequest struct {
	Date             string   `json:"date" validate:"required"`
	Location         string   `json:"location"`
	WaterTemperature *float64 `json:"water_temperature" validate:"omitempty,gte=-50,lte=50"`
	AirTemperature   *float64 `json:"air_temperature" validate:"omitempty,gte=-60,lte=60"`
	DurationMinutes  *int     `json:"duration_minutes" validate:"omitempty,gte=0"`
	DurationSeconds  *int     `json:"duration_seconds" validate:"omitempty,gte=0,lt=60"`
	FeelingBefore    *int     `json:"feeling_before" validate:"omitempty,gte=1,lte=10"`
	FeelingAfter     *int     `json:"feeling_after" validate:"omitempty,gte=1,lte=10"`
	SwearWords       *int     `json:"swear_words" validate:"omitempty,gte=0"`
	Sauna            *bool    `json:"sauna"`
	SaunaDuration    *int     `json:"sauna_duration" validate:"omitempty,gte=0"`
}

// Validate checks the payload ranges client-side before it is sent.
func (r CreateIceBathRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// listEnvelope is the wire shape of the paginated list endpoint.
type listEnvelope struct {
	Data []domain.IceBath `json:"data"`
	Meta domain.PageMeta  `json:"meta"`
}

// ListIceBaths fetches one page of records. Pages are 1-based. Requesting a
// page beyond the last one returns an empty item list, not an error.
func (c *Client) ListIceBaths(ctx context.Context, page, perPage int) (*domain.IceBathPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	var env listEnvelope
	if err := c.get(ctx, "/v1/avanto?"+params.Encode(), &env); err != nil {
		return nil, fmt.Errorf("client.ListIceBaths: %w", err)
	}

	result := &domain.IceBathPage{Items: env.Data, Meta: env.Meta}
	if result.Items == nil {
		result.Items = []domain.IceBath{}
	}
	// Older backend versions omit meta; keep the page self-consistent.
	if result.Meta.CurrentPage == 0 {
		result.Meta.CurrentPage = page
	}
	if result.Meta.LastPage == 0 {
		result.Meta.LastPage = 1
	}
	if result.Meta.PerPage == 0 {
		result.Meta.PerPage = perPage
	}
	return result, nil
}

// GetIceBath fetches a single record by ID. A missing record maps to
// ErrNotFound.
func (c *Client) GetIceBath(ctx context.Context, id int64) (*domain.IceBath, error) {
	var bath domain.IceBath
	if err := c.get(ctx, "/v1/avanto/"+strconv.FormatInt(id, 10), &bath); err != nil {
		return nil, fmt.Errorf("client.GetIceBath: %w", err)
	}
	return &bath, nil
}

// CreateIceBath logs a new session.
func (c *Client) CreateIceBath(ctx context.Context, req CreateIceBathRequest) (*domain.IceBath, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("client.CreateIceBath: %w", err)
	}
	var created domain.IceBath
	if err := c.post(ctx, "/v1/avanto", req, &created); err != nil {
		return nil, fmt.Errorf("client.CreateIceBath: %w", err)
	}
	return &created, nil
}

// UpdateIceBath replaces an existing record.
func (c *Client) UpdateIceBath(ctx context.Context, id int64, req CreateIceBathRequest) (*domain.IceBath, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("client.UpdateIceBath: %w", err)
	}
	var updated domain.IceBath
	if err := c.put(ctx, "/v1/avanto/"+strconv.FormatInt(id, 10), req, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateIceBath: %w", err)
	}
	return &updated, nil
}

// DeleteIceBath removes a record.
func (c *Client) DeleteIceBath(ctx context.Context, id int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/v1/avanto/"+strconv.FormatInt(id, 10), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteIceBath: %w", err)
	}
	return nil
}

// statsEnvelope is the wire shape of the stats endpoint; the aggregate sits
// one level down under "data".
type statsEnvelope struct {
	Data domain.Stats `json:"data"`
}

// Stats returns the aggregate numbers the backend computes.
func (c *Client) Stats(ctx context.Context) (*domain.Stats, error) {
	var env statsEnvelope
	if err := c.get(ctx, "/v1/stats", &env); err != nil {
		return nil, fmt.Errorf("client.Stats: %w", err)
	}
	return &env.Data, nil
}
