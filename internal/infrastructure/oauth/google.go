package oauth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

const ProviderGoogle = "google"

var ErrNoEmail = errors.New("google account has no email")

// Google runs the authorization code flow and resolves the signed-in profile.
type Google struct {
	cfg *oauth2.Config
}

func NewGoogle(clientID, clientSecret, callbackURL string) *Google {
	return &Google{cfg: &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"profile", "email"},
		Endpoint:     google.Endpoint,
	}}
}

func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the callback code for a token and reads the userinfo endpoint.
func (g *Google) Exchange(ctx context.Context, code string) (entity.ExternalIdentity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return entity.ExternalIdentity{}, fmt.Errorf("exchange code: %w", err)
	}
	svc, err := googleoauth.NewService(ctx, option.WithTokenSource(g.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return entity.ExternalIdentity{}, fmt.Errorf("userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return entity.ExternalIdentity{}, fmt.Errorf("userinfo: %w", err)
	}
	if info.Email == "" {
		return entity.ExternalIdentity{}, ErrNoEmail
	}
	return entity.ExternalIdentity{
		Provider: ProviderGoogle,
		Subject:  info.Id,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}
