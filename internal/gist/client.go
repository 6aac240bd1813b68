package gist

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/go-github/v62/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// Client creates gists through the GitHub REST API.
type Client struct {
	config Config
	logger *zap.Logger
}

func NewClient(config Config, logger *zap.Logger) *Client {
	return &Client{
		config: config,
		logger: logger,
	}
}

// Create creates a gist holding only the placeholder file.
func (c *Client) Create(ctx context.Context, draft Draft) (*Descriptor, error) {
	if c.config.Token == "" {
		return nil, fmt.Errorf("%w: token is not configured", ErrUnauthorized)
	}

	client, err := c.client(ctx)
	if err != nil {
		c.logger.Error("failed to build api client", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	c.logger.Info("creating gist",
		zap.String("host", c.config.Host),
		zap.Bool("public", draft.Public),
	)

	created, _, err := client.Gists.Create(ctx, &github.Gist{
		Description: github.String(draft.Description),
		Public:      github.Bool(draft.Public),
		Files: map[github.GistFilename]github.GistFile{
			PlaceholderFile: {Content: github.String(PlaceholderContent)},
		},
	})
	if err != nil {
		c.logger.Error("failed to create gist", zap.Error(err))

		var respErr *github.ErrorResponse
		if errors.As(err, &respErr) && respErr.Response != nil &&
			respErr.Response.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}

		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	descriptor := &Descriptor{
		ID:      created.GetID(),
		PullURL: created.GetGitPullURL(),
		PushURL: created.GetGitPushURL(),
		HTMLURL: created.GetHTMLURL(),
		Public:  created.GetPublic(),
	}

	if descriptor.ID == "" || descriptor.PullURL == "" {
		c.logger.Error("gist api response lacks id or pull url")
		return nil, fmt.Errorf("%w: missing id or git_pull_url", ErrInvalidResponse)
	}

	c.logger.Info("gist created",
		zap.String("gist_id", descriptor.ID),
		zap.String("html_url", descriptor.HTMLURL),
	)

	return descriptor, nil
}

func (c *Client) client(ctx context.Context) (*github.Client, error) {
	baseURL, err := url.Parse(c.config.apiURL())
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: c.config.Token},
	)

	client := github.NewClient(oauth2.NewClient(ctx, ts))
	client.BaseURL = baseURL

	return client, nil
}
