// Package github looks up GitHub Pages metadata for a published repository.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// PagesInfo is the subset of the Pages API response the CLI reports.
// It avoids coupling callers to the go-github types.
type PagesInfo struct {
	HTMLURL       string
	Status        string
	Branch        string
	Path          string
	CNAME         string
	HTTPSEnforced bool
}

// Client is an interface for GitHub API interactions
type Client interface {
	// GetPages returns the Pages site of owner/repo, or nil when Pages is not enabled
	GetPages(ctx context.Context, owner, repo string) (*PagesInfo, error)
}

// RealClient implements Client on top of go-github
type RealClient struct {
	client *github.Client
}

// NewClient creates an authenticated client. An empty baseURL targets api.github.com.
func NewClient(ctx context.Context, token, baseURL string) (*RealClient, error) {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	client := github.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
		client.UploadURL = u
	}

	return &RealClient{client: client}, nil
}

// GetPages implements Client
func (c *RealClient) GetPages(ctx context.Context, owner, repo string) (*PagesInfo, error) {
	pages, _, err := c.client.Repositories.GetPagesInfo(ctx, owner, repo)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pages info for %s/%s: %w", owner, repo, err)
	}
	return toPagesInfo(pages), nil
}

func toPagesInfo(pages *github.Pages) *PagesInfo {
	info := &PagesInfo{
		HTMLURL:       pages.GetHTMLURL(),
		Status:        pages.GetStatus(),
		CNAME:         pages.GetCNAME(),
		HTTPSEnforced: pages.GetHTTPSEnforced(),
	}
	if src := pages.GetSource(); src != nil {
		info.Branch = src.GetBranch()
		info.Path = src.GetPath()
	}
	return info
}

// PagesURL resolves the site URL for a remote. It returns "" without error when
// the remote is not hosted on github.com or Pages is not enabled.
func PagesURL(ctx context.Context, client Client, remoteURL string) (string, error) {
	owner, repo, ok := ParseRepoURL(remoteURL)
	if !ok {
		return "", nil
	}
	info, err := client.GetPages(ctx, owner, repo)
	if err != nil || info == nil {
		return "", err
	}
	return info.HTMLURL, nil
}
