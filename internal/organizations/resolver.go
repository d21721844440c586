// Package organizations provides implementations of the organization
// resolver collaborator consumed by the query parser.
package organizations

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 2 * time.Second

// ResolverFunc adapts a plain function to the services.OrganizationResolver
// interface.
type ResolverFunc func(text string) (string, bool)

// ResolveOrganization calls the wrapped function.
func (f ResolverFunc) ResolveOrganization(text string) (string, bool) {
	return f(text)
}

// Client resolves organization names against an external lookup service.
// Resolution is best-effort: any transport or decoding failure is reported as
// a miss, never propagated as an error.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a Client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// ResolveOrganization asks the lookup service for the best-match organization
// id of a free-text fragment. Any failure or no-match means "no organization
// constraint".
func (c *Client) ResolveOrganization(text string) (string, bool) {
	if strings.TrimSpace(text) == "" || c.baseURL == "" {
		return "", false
	}

	lookupURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(text))

	resp, err := c.client.Get(lookupURL)
	if err != nil {
		log.Printf("Warning: organization lookup failed for %q: %v", text, err)
		return "", false
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("Warning: failed to close organization lookup response body: %v", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode != http.StatusNotFound {
			log.Printf("Warning: organization lookup for %q returned status %d", text, resp.StatusCode)
		}
		return "", false
	}

	var result struct {
		OrganizationID string `json:"organization_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("Warning: failed to decode organization lookup response for %q: %v", text, err)
		return "", false
	}

	if result.OrganizationID == "" {
		return "", false
	}
	return result.OrganizationID, true
}
