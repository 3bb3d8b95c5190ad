// Package remote implements the network store adapter: an HTTP JSON client
// for the profile vault service.
//
// The adapter owns two responsibilities beyond plain transport: secret
// fields are sealed with the field cipher before every write and opened
// after every read, and each written record carries a server-assigned
// last-modified timestamp. It never retries; retry policy belongs to the
// caller.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/progitman/progitman/internal/cryptox"
	"github.com/progitman/progitman/internal/logging"
	"github.com/progitman/progitman/internal/models"
	"github.com/progitman/progitman/internal/storage"
)

// Client talks to the vault service and implements storage.Store.
type Client struct {
	baseURL     string
	http        *http.Client
	cipher      *cryptox.Cipher
	logger      logging.Logger
	accessToken string
}

// NewClient builds a Client for the vault service at baseURL. The timeout
// applies per call; there is no additional timeout layering above this.
func NewClient(baseURL string, timeout time.Duration, cipher *cryptox.Cipher, logger logging.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		cipher:  cipher,
		logger:  logger.With("module", "remote"),
	}
}

type sessionRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken string `json:"access_token"`
}

// Login authenticates against the vault service and stores the bearer token
// for subsequent calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(sessionRequest{Username: username, Password: password})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/sessions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return storage.NewError(storage.KindUnreachable, "remote.login", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return mapStatus("remote.login", resp)
	}

	var sr sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return storage.NewError(storage.KindUnknown, "remote.login", err)
	}

	c.accessToken = sr.AccessToken
	return nil
}

// Put writes a profile to the vault service, sealing secret fields first.
// A profile without a remote-origin id is created (the service assigns a
// UUID); otherwise the existing record is replaced. The returned copy
// carries the authoritative id and last-modified timestamp with secrets
// still in cleartext.
func (c *Client) Put(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	sealed, err := c.seal(p)
	if err != nil {
		return nil, storage.NewError(storage.KindUnknown, "remote.put", err)
	}

	var (
		method = http.MethodPost
		url    = c.baseURL + "/api/v1/profiles"
	)
	if models.IsRemoteID(p.ID) {
		method = http.MethodPut
		url += "/" + p.ID
	}

	body, err := json.Marshal(sealed)
	if err != nil {
		return nil, storage.NewError(storage.KindUnknown, "remote.put", err)
	}

	resp, err := c.do(ctx, method, url, body)
	if err != nil {
		return nil, storage.NewError(storage.KindUnreachable, "remote.put", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, mapStatus("remote.put", resp)
	}

	var stored models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		return nil, storage.NewError(storage.KindUnknown, "remote.put", err)
	}

	result := p.Clone()
	result.ID = stored.ID
	result.UpdatedAt = stored.UpdatedAt
	if result.UpdatedAt.IsZero() {
		// the service should stamp every write; fall back to call time
		result.UpdatedAt = time.Now().UTC()
	}
	return result, nil
}

// ListAll fetches every profile, opening secret envelopes. A field that
// fails to decrypt degrades to an empty string instead of failing the call.
func (c *Client) ListAll(ctx context.Context) ([]*models.Profile, error) {
	resp, err := c.do(ctx, http.MethodGet, c.baseURL+"/api/v1/profiles", nil)
	if err != nil {
		return nil, storage.NewError(storage.KindUnreachable, "remote.list", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, mapStatus("remote.list", resp)
	}

	var sealed []*models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&sealed); err != nil {
		return nil, storage.NewError(storage.KindUnknown, "remote.list", err)
	}

	result := make([]*models.Profile, 0, len(sealed))
	for _, p := range sealed {
		result = append(result, c.open(ctx, p))
	}
	return result, nil
}

// Delete removes a profile by id. A 404 is tolerated: the record being
// already gone is the desired outcome.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, http.MethodDelete, c.baseURL+"/api/v1/profiles/"+id, nil)
	if err != nil {
		return storage.NewError(storage.KindUnreachable, "remote.delete", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return mapStatus("remote.delete", resp)
	}
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	return c.http.Do(req)
}

// seal returns a copy of p with secret fields replaced by cipher envelopes.
func (c *Client) seal(p *models.Profile) (*models.Profile, error) {
	sealed := p.Clone()

	token, err := c.cipher.Encrypt(p.Token)
	if err != nil {
		return nil, fmt.Errorf("seal token: %w", err)
	}
	pin, err := c.cipher.Encrypt(p.PIN)
	if err != nil {
		return nil, fmt.Errorf("seal pin: %w", err)
	}

	sealed.Token = token
	sealed.PIN = pin
	return sealed, nil
}

// open returns a copy of p with envelopes replaced by cleartext. A field
// that cannot be opened becomes "" and is logged; the record survives.
func (c *Client) open(ctx context.Context, p *models.Profile) *models.Profile {
	opened := p.Clone()

	token, err := c.cipher.Decrypt(p.Token)
	if err != nil {
		c.logger.Warn(ctx, "token field unavailable", "id", p.ID, "error", err)
		token = ""
	}
	pin, err := c.cipher.Decrypt(p.PIN)
	if err != nil {
		c.logger.Warn(ctx, "pin field unavailable", "id", p.ID, "error", err)
		pin = ""
	}

	opened.Token = token
	opened.PIN = pin
	return opened
}

func mapStatus(op string, resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	err := fmt.Errorf("%s: %s", resp.Status, bytes.TrimSpace(snippet))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return storage.NewError(storage.KindUnauthorized, op, err)
	case http.StatusRequestEntityTooLarge, http.StatusTooManyRequests, http.StatusInsufficientStorage:
		return storage.NewError(storage.KindQuotaExceeded, op, err)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return storage.NewError(storage.KindUnreachable, op, err)
	default:
		return storage.NewError(storage.KindUnknown, op, err)
	}
}
