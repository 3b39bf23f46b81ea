package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/go-github/v62/github"
)

// MockGitHubServerConfig configures the behavior of a mock GitHub server
type MockGitHubServerConfig struct {
	// Sites maps "owner/repo" to the Pages response for that repository
	Sites map[string]*github.Pages
	// StatusCodes maps "owner/repo" to an error status returned instead of a site
	StatusCodes map[string]int

	mu sync.Mutex
	// Requests records "METHOD path" for every request served
	Requests []string
	// Authorizations records the Authorization header of every request
	Authorizations []string
}

// NewMockGitHubServerConfig creates a new mock server config with defaults
func NewMockGitHubServerConfig() *MockGitHubServerConfig {
	return &MockGitHubServerConfig{
		Sites:       make(map[string]*github.Pages),
		StatusCodes: make(map[string]int),
	}
}

// AddSite registers a Pages site for owner/repo served from branch
func (c *MockGitHubServerConfig) AddSite(owner, repo, branch, htmlURL string) {
	c.Sites[owner+"/"+repo] = &github.Pages{
		HTMLURL: github.String(htmlURL),
		Status:  github.String("built"),
		Source: &github.PagesSource{
			Branch: github.String(branch),
			Path:   github.String("/"),
		},
		HTTPSEnforced: github.Bool(true),
	}
}

// RequestCount returns how many requests the server has handled
func (c *MockGitHubServerConfig) RequestCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// NewMockGitHubServer creates an httptest server that mocks the Pages endpoint
func NewMockGitHubServer(t *testing.T, config *MockGitHubServerConfig) *httptest.Server {
	t.Helper()
	if config == nil {
		config = NewMockGitHubServerConfig()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}/pages", func(w http.ResponseWriter, r *http.Request) {
		config.mu.Lock()
		config.Requests = append(config.Requests, r.Method+" "+r.URL.Path)
		config.Authorizations = append(config.Authorizations, r.Header.Get("Authorization"))
		config.mu.Unlock()

		key := r.PathValue("owner") + "/" + r.PathValue("repo")
		if code, ok := config.StatusCodes[key]; ok {
			writeJSON(w, code, map[string]string{"message": http.StatusText(code)})
			return
		}
		site, ok := config.Sites[key]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		writeJSON(w, http.StatusOK, site)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
