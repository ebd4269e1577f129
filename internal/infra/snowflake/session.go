// Package snowflake holds the session handle and the ordered resolution
// strategies that produce one: an ambient runtime-injected session first, a
// session built from locally stored secrets second, and explicit manual
// parameters as the documented tertiary path.
package snowflake

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

	"cortex-labs/internal/config"
)

// Params carries everything needed to construct a session from scratch.
type Params struct {
	Account   string
	User      string
	Password  string
	Role      string
	Warehouse string
	Database  string
	Schema    string
}

func ParamsFromConfig(c config.ConnectionConfig) Params {
	return Params{
		Account:   c.Account,
		User:      c.User,
		Password:  c.Password,
		Role:      c.Role,
		Warehouse: c.Warehouse,
		Database:  c.Database,
		Schema:    c.Schema,
	}
}

func (p Params) validate() error {
	if p.Account == "" || p.User == "" || p.Password == "" {
		return errors.New("account, user and password are required")
	}
	return nil
}

// Session is the opaque handle to a remote compute connection. Once resolved
// it is immutable and reused for the rest of the browser session; most pages
// never close it.
type Session struct {
	Host      string `json:"host"`
	Token     string `json:"token"`
	TokenType string `json:"token_type"` // "OAUTH" for ambient, "SESSION" for login
	Role      string `json:"role"`
	Warehouse string `json:"warehouse"`
	Database  string `json:"database"`
	Schema    string `json:"schema"`

	client *http.Client
}

func (s *Session) httpClient() *http.Client {
	if s.client == nil {
		s.client = &http.Client{Timeout: 30 * time.Second}
	}
	return s.client
}

// Do issues an authenticated JSON request against the session's host and
// decodes the response into out (when out is non-nil). Non-2xx responses
// return an error carrying the response body.
func (s *Session) Do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.Host+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if s.TokenType == "OAUTH" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
		req.Header.Set("X-Snowflake-Authorization-Token-Type", "OAUTH")
	} else {
		req.Header.Set("Authorization", `Snowflake Token="`+s.Token+`"`)
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("snowflake http %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Ping runs the cheapest possible statement to verify the handle works.
func (s *Session) Ping(ctx context.Context) error {
	body := map[string]any{"statement": "SELECT 1", "warehouse": s.Warehouse}
	return s.Do(ctx, http.MethodPost, "/api/v2/statements", body, nil)
}

// Close invalidates the remote session. Session-token handles log out;
// ambient OAuth handles belong to the hosting runtime and are left alone.
func (s *Session) Close(ctx context.Context) error {
	if s.TokenType != "SESSION" {
		return nil
	}
	return s.Do(ctx, http.MethodPost, "/session/logout-request", nil, nil)
}

// dial performs the login exchange and returns a session-token handle.
func dial(ctx context.Context, p Params) (*Session, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	host := "https://" + p.Account + ".snowflakecomputing.com"
	loginBody := map[string]any{
		"data": map[string]string{
			"ACCOUNT_NAME": p.Account,
			"LOGIN_NAME":   p.User,
			"PASSWORD":     p.Password,
		},
	}
	b, err := json.Marshal(loginBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host+"/session/v1/login-request", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("login http %d", resp.StatusCode)
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	if !payload.Success || payload.Data.Token == "" {
		return nil, fmt.Errorf("login rejected: %s", payload.Message)
	}

	return &Session{
		Host:      host,
		Token:     payload.Data.Token,
		TokenType: "SESSION",
		Role:      p.Role,
		Warehouse: p.Warehouse,
		Database:  p.Database,
		Schema:    p.Schema,
		client:    client,
	}, nil
}
