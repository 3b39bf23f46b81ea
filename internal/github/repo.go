package github

import (
	"net/url"
	"strings"
)

const githubHost = "github.com"

// ParseRepoURL extracts owner and repository name from a github.com remote.
// Handles https://github.com/owner/repo(.git), ssh://git@github.com/owner/repo
// and the scp-like git@github.com:owner/repo forms.
func ParseRepoURL(remoteURL string) (owner, repo string, ok bool) {
	remoteURL = strings.TrimSpace(remoteURL)

	var host, path string
	if strings.Contains(remoteURL, "://") {
		u, err := url.Parse(remoteURL)
		if err != nil {
			return "", "", false
		}
		host, path = u.Hostname(), u.Path
	} else {
		// scp-like: [user@]host:path
		at := strings.LastIndex(remoteURL, "@")
		colon := strings.Index(remoteURL, ":")
		if colon < 0 || colon < at {
			return "", "", false
		}
		host, path = remoteURL[at+1:colon], remoteURL[colon+1:]
	}

	if !strings.EqualFold(host, githubHost) && !strings.EqualFold(host, "www."+githubHost) {
		return "", "", false
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}
