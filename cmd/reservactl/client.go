package main

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
)

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type apiError struct {
	Status    int
	ErrorCode string            `json:"error_code"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors"`
}

func (e *apiError) Error() string {
	var b strings.Builder
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		fmt.Fprintf(&b, "a API respondeu com status %d", e.Status)
	}
	for field, message := range e.Errors {
		fmt.Fprintf(&b, "\n  %s: %s", field, message)
	}
	return b.String()
}

func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("não foi possível contactar a API em %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type loginResult struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	User      struct {
		ID          string `json:"id"`
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
		Role        string `json:"role"`
	} `json:"user"`
}

func (c *apiClient) Login(ctx context.Context, email, password string) (loginResult, error) {
	var result loginResult
	err := c.do(ctx, http.MethodPost, "/sessions", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &result)
	return result, err
}

type roomResult struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Capacity           int    `json:"capacity"`
	IsActive           bool   `json:"is_active"`
	IsFixedReservation bool   `json:"is_fixed_reservation"`
	HasProjector       bool   `json:"has_projector"`
	HasInternet        bool   `json:"has_internet"`
	HasAirConditioning bool   `json:"has_air_conditioning"`
}

type roomsResult struct {
	Rooms []roomResult `json:"rooms"`
}

func (c *apiClient) ListRooms(ctx context.Context) ([]roomResult, error) {
	var result roomsResult
	if err := c.do(ctx, http.MethodGet, "/rooms", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Rooms, nil
}

func (c *apiClient) Availability(ctx context.Context, query url.Values) ([]roomResult, error) {
	var result roomsResult
	if err := c.do(ctx, http.MethodGet, "/availability", query, nil, &result); err != nil {
		return nil, err
	}
	return result.Rooms, nil
}
