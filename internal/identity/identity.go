package identity

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Provider resolves a human-readable display name for an account id.
// Implementations are external collaborators; the game core only sees this
// interface and treats an empty name as "keep the generated placeholder".
type Provider interface {
	DisplayName(accountID string) (string, error)
}

// NoopProvider never supplies a name.
type NoopProvider struct{}

func (NoopProvider) DisplayName(string) (string, error) {
	return "", nil
}

// FarcasterClient asks a Farcaster-compatible identity endpoint for the
// display name linked to an account. The wire shape is the minimal subset
// this service reads; anything else in the response is ignored.
type FarcasterClient struct {
	BaseURL string
	Client  *http.Client
}

func NewFarcasterClient(baseURL string) *FarcasterClient {
	return &FarcasterClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *FarcasterClient) DisplayName(accountID string) (string, error) {
	resp, err := c.Client.Get(fmt.Sprintf("%s/v1/user?id=%s", c.BaseURL, url.QueryEscape(accountID)))
	if err != nil {
		return "", fmt.Errorf("failed to query identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var body struct {
		DisplayName string `json:"displayName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode identity response: %w", err)
	}

	return body.DisplayName, nil
}
