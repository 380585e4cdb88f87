package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubEmailsURL = "https://api.github.com/user/emails"

// GitHubEmail mirrors one entry of GitHub's /user/emails response.
type GitHubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// GitHubClient drives the GitHub OAuth2 authorization-code flow and fetches
// the authenticated user's verified email addresses.
type GitHubClient struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
}

// NewGitHubClient builds a GitHubClient for the given OAuth app credentials.
// redirectURL must point back at the relay's /auth/authorized endpoint.
func NewGitHubClient(clientID, clientSecret, redirectURL string) *GitHubClient {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	return &GitHubClient{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"user:email"},
			Endpoint:     github.Endpoint,
		},
		httpClient: retryClient.StandardClient(),
	}
}

// AuthCodeURL returns the GitHub authorize URL the relay redirects the
// browser to, binding the given opaque state value.
func (g *GitHubClient) AuthCodeURL(state string) string {
	return g.oauthConfig.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token and fetches the
// verified email addresses associated with that token.
func (g *GitHubClient) Exchange(ctx context.Context, code string) (primaryEmail string, emails []string, err error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	token, err := g.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("auth: exchanging code: %w", err)
	}

	client := g.oauthConfig.Client(ctx, token)
	resp, err := client.Get(githubEmailsURL)
	if err != nil {
		return "", nil, fmt.Errorf("auth: fetching emails: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("auth: github emails endpoint returned %d", resp.StatusCode)
	}

	var ghEmails []GitHubEmail
	if err := json.NewDecoder(resp.Body).Decode(&ghEmails); err != nil {
		return "", nil, fmt.Errorf("auth: decoding emails response: %w", err)
	}

	for _, e := range ghEmails {
		if !e.Verified {
			continue
		}
		emails = append(emails, e.Email)
		if e.Primary {
			primaryEmail = e.Email
		}
	}
	if primaryEmail == "" && len(emails) > 0 {
		primaryEmail = emails[0]
	}
	if len(emails) == 0 {
		return "", nil, fmt.Errorf("auth: github account has no verified email addresses")
	}

	return primaryEmail, emails, nil
}
