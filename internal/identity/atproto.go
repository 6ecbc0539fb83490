package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// ATProtoProvider calls the identity resolver service over HTTP. The
// resolver owns the OAuth/DPoP dance with Bluesky; this client only does the
// final assertion-for-DID exchange.
type ATProtoProvider struct {
	baseURL string
	client  *http.Client
}

// NewATProtoProvider builds a provider from environment configuration.
func NewATProtoProvider() *ATProtoProvider {
	baseURL := os.Getenv("IDENTITY_RESOLVER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	return &ATProtoProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type resolveRequest struct {
	Assertion string `json:"assertion"`
}

func (p *ATProtoProvider) Resolve(ctx context.Context, assertion string) (*Identity, error) {
	body, err := json.Marshal(resolveRequest{Assertion: assertion})
	if err != nil {
		return nil, fmt.Errorf("encode resolve request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/resolve", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build resolve request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: resolver returned %d", ErrUnavailable, resp.StatusCode)
	}

	var ident Identity
	if err := json.NewDecoder(resp.Body).Decode(&ident); err != nil {
		return nil, fmt.Errorf("%w: bad resolver response: %v", ErrUnavailable, err)
	}
	if ident.DID == "" || ident.Handle == "" {
		return nil, fmt.Errorf("%w: resolver response missing did or handle", ErrUnavailable)
	}
	return &ident, nil
}
