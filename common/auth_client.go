package common

import "golang.org/x/oauth2"

// AuthClient defines the ability to refresh an OAuth2 token for the sports
// data backend. Providers that hand out long-lived API keys instead of
// tokens can leave this nil; module clients skip the refresh path then.
type AuthClient interface {
	// RefreshToken attempts to refresh using the given refresh token string.
	// Returns a new *oauth2.Token on success, or an error if refresh fails.
	RefreshToken(refreshToken string) (*oauth2.Token, error)
}
