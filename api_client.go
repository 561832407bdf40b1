// file: api_client.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"landcheck/models"
	"landcheck/wizard"
)

// ErrUnauthorized is returned when the auth service rejects the caller's token.
var ErrUnauthorized = errors.New("api: unauthorized")

// upstreamError is a non-2xx answer from the API.
type upstreamError struct {
	Status int
	Body   string
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("api non-2xx: %d %s, body: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// APIClient talks to the external persistence and auth API. Calls are never
// retried; a breaker stops hammering the API while it is failing.
type APIClient struct {
	base    string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewAPIClient(base string, timeout time.Duration, failures uint32, openFor time.Duration) *APIClient {
	if failures == 0 {
		failures = 1
	}
	return &APIClient{
		base: strings.TrimRight(strings.TrimSpace(base), "/"),
		http: &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "landcheck-api",
			Timeout: openFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			// Client errors mean the API is up.
			IsSuccessful: func(err error) bool {
				var ue *upstreamError
				if errors.As(err, &ue) {
					return ue.Status < 500
				}
				return err == nil || errors.Is(err, ErrUnauthorized)
			},
		}),
	}
}

// SaveSubmission posts the finished questionnaire to {base}/visitors.
func (c *APIClient) SaveSubmission(ctx context.Context, s wizard.Submission) error {
	var ack models.SubmissionAck
	if err := c.do(ctx, http.MethodPost, "/visitors", "", toSubmissionRecord(s), &ack); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

// CurrentUser fetches {base}/auth/me with the caller's bearer token.
func (c *APIClient) CurrentUser(ctx context.Context, bearer string) (*models.UserProfile, error) {
	if bearer == "" {
		return nil, ErrUnauthorized
	}
	var u models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", bearer, nil, &u); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &u, nil
}

func (c *APIClient) do(ctx context.Context, method, path, bearer string, in, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		return nil, c.roundTrip(ctx, method, path, bearer, in, out)
	})
	return err
}

func (c *APIClient) roundTrip(ctx context.Context, method, path, bearer string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &upstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode api resp: %w", err)
	}
	return nil
}

func toSubmissionRecord(s wizard.Submission) models.Submission {
	st := s.State
	e := s.Eligibility
	return models.Submission{
		ID:               s.ID,
		SubmittedAt:      s.SubmittedAt,
		Title:            st.Title,
		FirstName:        st.FirstName,
		LastName:         st.LastName,
		NIC:              st.NIC,
		Phone:            st.Phone,
		Email:            st.Email,
		HasOwnLand:       st.HasOwnLand != nil && *st.HasOwnLand,
		Province:         st.Province,
		District:         st.District,
		City:             st.City,
		ClimateZone:      string(st.ClimateZone),
		LandShape:        string(st.LandShape),
		HasWater:         st.HasWater,
		SoilType:         string(st.SoilType),
		HasStones:        st.HasStones != nil && *st.HasStones,
		HasLandslideRisk: st.HasLandslideRisk != nil && *st.HasLandslideRisk,
		HasForestry:      st.HasForestry != nil && *st.HasForestry,
		LandSize:         st.LandSize,
		Eligibility: models.Eligibility{
			ClimateZone: e.ClimateZoneEligible,
			SoilType:    e.SoilTypeEligible,
			Water:       e.WaterEligible,
			Stones:      e.StonesEligible,
			Landslide:   e.LandslideEligible,
			Overall:     e.OverallEligible,
		},
	}
}
