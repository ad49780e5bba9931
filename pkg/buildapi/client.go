// Package buildapi provides a client for a Buildkite-style CI API and
// resolves the build pairs a comparison runs against.
package buildapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const (
	// APIBaseURL is the base URL for the CI API.
	APIBaseURL = "https://api.buildkite.com/v2"

	// StateFinished is the terminal state a build must reach before its
	// listing is comparable.
	StateFinished = "passed"
)

// ErrNotFound reports that fewer than two completed builds exist for the
// requested branch. A comparison needs exactly two.
var ErrNotFound = errors.New("fewer than two completed builds found")

// Build is the CI metadata for one build.
type Build struct {
	ID        string    `json:"id"`
	Number    int       `json:"number"`
	State     string    `json:"state"`
	Branch    string    `json:"branch"`
	WebURL    string    `json:"web_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Artifact is one file attached to a build.
type Artifact struct {
	ID          string `json:"id"`
	JobID       string `json:"job_id"`
	Path        string `json:"path"`
	DownloadURL string `json:"download_url"`
	FileSize    int64  `json:"file_size"`
}

// Client is a CI API client.
type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new CI API client.
func NewClient(apiToken string) *Client {
	return NewClientWithBaseURL(apiToken, APIBaseURL)
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
func NewClientWithBaseURL(apiToken, baseURL string) *Client {
	return &Client{
		apiToken: apiToken,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListBuildsOptions narrows a build listing request.
type ListBuildsOptions struct {
	Branch  string
	State   string
	PerPage int
}

// ListBuilds fetches builds for a pipeline, newest first.
func (c *Client) ListBuilds(ctx context.Context, org, pipeline string, opts ListBuildsOptions) ([]Build, error) {
	query := url.Values{}
	if opts.Branch != "" {
		query.Set("branch", opts.Branch)
	}
	if opts.State != "" {
		query.Set("state", opts.State)
	}
	if opts.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	endpoint := fmt.Sprintf("%s/organizations/%s/pipelines/%s/builds", c.baseURL, org, pipeline)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var builds []Build
	if err := c.getJSON(ctx, endpoint, &builds); err != nil {
		return nil, err
	}

	// The API documents newest-first ordering; enforce it so callers can
	// index the pair directly.
	sort.Slice(builds, func(i, j int) bool {
		return builds[i].Number > builds[j].Number
	})

	return builds, nil
}

// ResolveBuildPair returns the two most recent completed builds for a
// branch: current first, then the immediately preceding one. Returns
// ErrNotFound when fewer than two completed builds exist.
func (c *Client) ResolveBuildPair(ctx context.Context, org, pipeline, branch string) (current, previous Build, err error) {
	builds, err := c.ListBuilds(ctx, org, pipeline, ListBuildsOptions{
		Branch:  branch,
		State:   StateFinished,
		PerPage: 10,
	})
	if err != nil {
		return Build{}, Build{}, err
	}

	completed := builds[:0]
	for _, b := range builds {
		if b.State == StateFinished {
			completed = append(completed, b)
		}
	}

	if len(completed) < 2 {
		return Build{}, Build{}, fmt.Errorf("branch %s: %w", branch, ErrNotFound)
	}

	return completed[0], completed[1], nil
}

// ListArtifacts fetches the artifact list for a build.
func (c *Client) ListArtifacts(ctx context.Context, org, pipeline string, buildNumber int) ([]Artifact, error) {
	endpoint := fmt.Sprintf("%s/organizations/%s/pipelines/%s/builds/%d/artifacts", c.baseURL, org, pipeline, buildNumber)

	var artifacts []Artifact
	if err := c.getJSON(ctx, endpoint, &artifacts); err != nil {
		return nil, err
	}

	return artifacts, nil
}

// DownloadArtifact downloads the content of an artifact by its download URL.
func (c *Client) DownloadArtifact(ctx context.Context, downloadURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("download failed with status %d: %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact content: %w", err)
	}

	return data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
