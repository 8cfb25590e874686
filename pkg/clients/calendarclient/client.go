package calendarclient

import (
	"context"
	"fmt"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/communityroots/mutualaid/internal/config"
	"github.com/communityroots/mutualaid/pkg/utils"
)

// Client wraps the Google Calendar API client used to publish shifts onto a
// shared community calendar
type Client struct {
	service *calendar.Service
	ctx     context.Context
}

// NewClient creates a new Calendar client using OAuth credentials and
// performs the OAuth flow if needed
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg, []string{utils.ScopeCalendarEvents})
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	token, err := utils.GetTokenWithFlow(ctx, oauthConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth token: %w", err)
	}

	httpClient := oauthConfig.Client(ctx, token)

	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	return &Client{
		service: service,
		ctx:     ctx,
	}, nil
}
