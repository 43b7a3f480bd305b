// Package his is the REST client for the hospital information system, the
// backend of record for patients, providers, appointments, and master data.
// The console never stores clinical state itself; every durable write goes
// through this client.
package his

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/careops/hospital-console/pkg/logging"
)

const defaultTimeout = 20 * time.Second

// Client talks to the HIS REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
	tracer     trace.Tracer
}

// Config holds HIS client configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// New creates an HIS client. BaseURL is required.
func New(cfg Config, logger *logging.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("his: BaseURL is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		tracer:     otel.Tracer("console.internal.his"),
	}, nil
}

// GetAvailability fetches the provider's availability document for one
// calendar date. The body is returned unparsed; see the availability
// package for shape handling.
func (c *Client) GetAvailability(ctx context.Context, providerID, date string, modality Modality) (*AvailabilityDocument, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, fmt.Errorf("his: provider id is required")
	}
	params := url.Values{}
	params.Set("date", date)
	if modality != "" {
		params.Set("modality", string(modality))
	}
	endpoint := fmt.Sprintf("/providers/%s/availability?%s", url.PathEscape(providerID), params.Encode())

	var body json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, err
	}
	return &AvailabilityDocument{
		ProviderID: providerID,
		Date:       date,
		Modality:   modality,
		Body:       body,
	}, nil
}

// CreateAppointment books a new appointment.
func (c *Client) CreateAppointment(ctx context.Context, payload AppointmentPayload) (*Appointment, error) {
	var appt Appointment
	if err := c.do(ctx, http.MethodPost, "/appointments", payload, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// UpdateAppointment reschedules or edits an existing appointment.
func (c *Client) UpdateAppointment(ctx context.Context, appointmentID string, payload AppointmentPayload) (*Appointment, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return nil, fmt.Errorf("his: appointment id is required")
	}
	endpoint := "/appointments/" + url.PathEscape(appointmentID)
	var appt Appointment
	if err := c.do(ctx, http.MethodPut, endpoint, payload, &appt); err != nil {
		return nil, err
	}
	return &appt, nil
}

// ListAppointmentsByProvider returns the provider's appointments in
// whatever order the HIS keeps them; ordering is normalized upstream.
func (c *Client) ListAppointmentsByProvider(ctx context.Context, providerID string) ([]Appointment, error) {
	if strings.TrimSpace(providerID) == "" {
		return nil, fmt.Errorf("his: provider id is required")
	}
	endpoint := fmt.Sprintf("/providers/%s/appointments", url.PathEscape(providerID))
	var appts []Appointment
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &appts); err != nil {
		return nil, err
	}
	return appts, nil
}

// ListSymptoms returns the symptom catalog.
func (c *Client) ListSymptoms(ctx context.Context) ([]CatalogItem, error) {
	var items []CatalogItem
	if err := c.do(ctx, http.MethodGet, "/catalog/symptoms", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListVisitReasons returns the visit-reason catalog.
func (c *Client) ListVisitReasons(ctx context.Context) ([]CatalogItem, error) {
	var items []CatalogItem
	if err := c.do(ctx, http.MethodGet, "/catalog/visit-reasons", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	ctx, span := c.tracer.Start(ctx, "his."+method+" "+endpoint,
		trace.WithAttributes(attribute.String("http.method", method)))
	defer span.End()

	var reqBody io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("his: marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("his: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("his: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("his: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(respBody)}
		span.RecordError(apiErr)
		c.logger.Warn("his request rejected",
			"method", method,
			"endpoint", endpoint,
			"status", resp.StatusCode,
			"message", apiErr.Message,
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("his: unmarshal response: %w", err)
	}
	return nil
}
