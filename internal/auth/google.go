package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"pointage/internal/core"
	"pointage/internal/store"
)

// ErrDomainNotAllowed is returned when a Google account is outside the
// company domain.
var ErrDomainNotAllowed = errors.New("google account domain not allowed")

// Profile is the identity returned by a successful Google sign-in.
type Profile struct {
	Email string
	Name  string
}

// GoogleAuthenticator runs the OAuth authorization-code flow against
// Google and restricts sign-in to one hosted domain.
type GoogleAuthenticator struct {
	config        *oauth2.Config
	allowedDomain string
}

func NewGoogleAuthenticator(clientID, clientSecret, redirectURL, allowedDomain string) *GoogleAuthenticator {
	return &GoogleAuthenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
		allowedDomain: strings.ToLower(allowedDomain),
	}
}

// AuthURL builds the Google consent page URL for the given state.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for the user's profile and
// enforces the domain restriction.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(g.config.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("create userinfo service: %w", err)
	}

	userinfo, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}

	email := strings.ToLower(userinfo.Email)
	if !g.emailAllowed(email, userinfo.Hd) {
		slog.WarnContext(ctx, "Rejected sign-in from outside allowed domain",
			"email", email, "hd", userinfo.Hd)
		return nil, ErrDomainNotAllowed
	}

	name := userinfo.Name
	if name == "" {
		name = email
	}

	return &Profile{Email: email, Name: name}, nil
}

func (g *GoogleAuthenticator) emailAllowed(email, hostedDomain string) bool {
	if g.allowedDomain == "" {
		return true
	}
	if strings.ToLower(hostedDomain) == g.allowedDomain {
		return true
	}
	return strings.HasSuffix(email, "@"+g.allowedDomain)
}

// EnsureEmployee finds the employee record matching the signed-in name,
// creating one with the default title on first sign-in.
func EnsureEmployee(ctx context.Context, st store.EmployeeStore, name, defaultTitle string) (core.Employee, error) {
	employees, err := st.ListEmployees(ctx)
	if err != nil {
		return core.Employee{}, fmt.Errorf("list employees: %w", err)
	}

	if existing, ok := store.FindEmployeeByName(employees, name); ok {
		return existing, nil
	}

	created, err := st.CreateEmployee(ctx, core.Employee{
		Name:  name,
		Title: defaultTitle,
	})
	if err != nil {
		return core.Employee{}, fmt.Errorf("create employee on first sign-in: %w", err)
	}

	slog.InfoContext(ctx, "Created employee record on first sign-in",
		"employee_id", created.ID, "name", created.Name)

	return created, nil
}

// RandomState returns an opaque CSRF state value for the OAuth flow.
func RandomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
