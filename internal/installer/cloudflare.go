package installer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	cloudflareAPIBase  = "https://api.cloudflare.com"
	tokenVerifyPath    = "/client/v4/user/tokens/verify"
	tokenActiveMessage = "This API Token is valid and active"
)

// TokenVerifier checks whether a Cloudflare API token is live and usable.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) error
}

type CloudflareClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewCloudflareClient() *CloudflareClient {
	return &CloudflareClient{
		BaseURL:    cloudflareAPIBase,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type tokenVerifyResponse struct {
	Success  bool `json:"success"`
	Messages []struct {
		Message string `json:"message"`
	} `json:"messages"`
}

// VerifyToken calls the Cloudflare token-verification endpoint with the
// candidate token as bearer credential. The token counts as valid only when
// the response reports success and carries the active-token message.
func (c *CloudflareClient) VerifyToken(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+tokenVerifyPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("token verification request: %w", err)
	}
	defer resp.Body.Close()

	var out tokenVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("token verification response: %w", err)
	}
	if !out.Success {
		return errors.New("cloudflare rejected the token")
	}
	for _, m := range out.Messages {
		if m.Message == tokenActiveMessage {
			return nil
		}
	}
	return errors.New("token is not active")
}
