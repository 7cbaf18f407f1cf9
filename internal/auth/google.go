package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// GoogleClaims is the subset of Google's ID-token payload the
// application cares about.
type GoogleClaims struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Aud     string `json:"aud"`
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleClaims, error)
}

// GoogleTokenVerifier validates Google ID tokens against Google's public
// tokeninfo endpoint and checks the audience matches our client ID.
type GoogleTokenVerifier struct {
	clientID string
	endpoint string
	client   *http.Client
}

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

func NewGoogleTokenVerifier(clientID string) *GoogleTokenVerifier {
	return &GoogleTokenVerifier{
		clientID: clientID,
		endpoint: googleTokenInfoURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	reqURL := fmt.Sprintf("%s?id_token=%s", v.endpoint, url.QueryEscape(idToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("invalid google token (status %d)", resp.StatusCode)
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if v.clientID != "" && claims.Aud != v.clientID {
		return nil, fmt.Errorf("google token issued for another client")
	}
	if claims.Email == "" || claims.Sub == "" {
		return nil, fmt.Errorf("google token missing required claims")
	}

	return &claims, nil
}
