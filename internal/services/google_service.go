package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleClaims is the verified identity returned by Google for an ID token.
type GoogleClaims struct {
	Email   string `json:"email"`
	Subject string `json:"sub"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	// Audience must match our client ID.
	Audience string `json:"aud"`
}

// GoogleService verifies Google ID tokens against the tokeninfo endpoint.
type GoogleService struct {
	clientID string
}

// NewGoogleService creates a GoogleService for the given OAuth client ID.
func NewGoogleService(clientID string) *GoogleService {
	return &GoogleService{clientID: clientID}
}

// Verify checks the ID token with Google and returns its claims. Any
// malformed, expired, or wrong-audience token yields an error.
func (s *GoogleService) Verify(credential string) (*GoogleClaims, error) {
	resp, err := http.Get(googleTokenInfoURL + "?id_token=" + url.QueryEscape(credential))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google tokeninfo returned status %d", resp.StatusCode)
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, err
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("google token has no email claim")
	}

	if s.clientID != "" && claims.Audience != s.clientID {
		return nil, fmt.Errorf("google token audience mismatch")
	}

	return &claims, nil
}
