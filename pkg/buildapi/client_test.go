package buildapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveBuildPair(t *testing.T) {
	tests := []struct {
		name         string
		builds       string // JSON returned by the API
		wantCurrent  int
		wantPrevious int
		wantErr      error
	}{
		{
			name: "two completed builds",
			builds: `[
				{"id": "b2", "number": 102, "state": "passed", "branch": "main"},
				{"id": "b1", "number": 101, "state": "passed", "branch": "main"}
			]`,
			wantCurrent:  102,
			wantPrevious: 101,
		},
		{
			name: "pair picked regardless of response order",
			builds: `[
				{"id": "b1", "number": 101, "state": "passed", "branch": "main"},
				{"id": "b3", "number": 103, "state": "passed", "branch": "main"},
				{"id": "b2", "number": 102, "state": "passed", "branch": "main"}
			]`,
			wantCurrent:  103,
			wantPrevious: 102,
		},
		{
			name: "non-terminal states are filtered out",
			builds: `[
				{"id": "b3", "number": 103, "state": "running", "branch": "main"},
				{"id": "b2", "number": 102, "state": "passed", "branch": "main"},
				{"id": "b1", "number": 101, "state": "passed", "branch": "main"}
			]`,
			wantCurrent:  102,
			wantPrevious: 101,
		},
		{
			name:    "single completed build",
			builds:  `[{"id": "b1", "number": 101, "state": "passed", "branch": "main"}]`,
			wantErr: ErrNotFound,
		},
		{
			name:    "no builds at all",
			builds:  `[]`,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/organizations/acme/pipelines/web/builds" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("branch"); got != "main" {
					t.Errorf("branch = %q, want main", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("Authorization = %q", got)
				}
				fmt.Fprint(w, tt.builds)
			}))
			defer server.Close()

			client := NewClientWithBaseURL("test-token", server.URL)
			current, previous, err := client.ResolveBuildPair(context.Background(), "acme", "web", "main")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveBuildPair() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveBuildPair() unexpected error: %v", err)
			}
			if current.Number != tt.wantCurrent {
				t.Errorf("current = %d, want %d", current.Number, tt.wantCurrent)
			}
			if previous.Number != tt.wantPrevious {
				t.Errorf("previous = %d, want %d", previous.Number, tt.wantPrevious)
			}
		})
	}
}

func TestResolveBuildPairAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("bad-token", server.URL)
	_, _, err := client.ResolveBuildPair(context.Background(), "acme", "web", "main")
	if err == nil {
		t.Fatal("ResolveBuildPair() expected error on 403")
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("transport failure must not be reported as ErrNotFound")
	}
}

func TestSourceListing(t *testing.T) {
	listing := `{"build": 0, "files": [{"path": "app.js", "size": 100, "gzip_size": 40}]}`

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/organizations/acme/pipelines/web/builds/102/artifacts", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `[
			{"id": "a1", "path": "logs/test.txt", "download_url": "%s/dl/a1", "file_size": 10},
			{"id": "a2", "path": "out/sizes.json", "download_url": "%s/dl/a2", "file_size": 90}
		]`, server.URL, server.URL)
	})
	mux.HandleFunc("/dl/a2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listing)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	source := NewSource(client, "acme", "web", "**/sizes.json")

	snap, err := source.Listing(context.Background(), Build{Number: 102})
	if err != nil {
		t.Fatalf("Listing() error: %v", err)
	}
	if snap.BuildNumber != 102 {
		t.Errorf("BuildNumber = %d, want 102", snap.BuildNumber)
	}
	if len(snap.Files) != 1 || snap.Files[0].Path != "app.js" {
		t.Errorf("Files = %+v", snap.Files)
	}
}

func TestSourceListingNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": "a1", "path": "logs/test.txt", "download_url": "http://unused", "file_size": 10}]`)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-token", server.URL)
	source := NewSource(client, "acme", "web", "**/sizes.json")

	if _, err := source.Listing(context.Background(), Build{Number: 102}); err == nil {
		t.Fatal("Listing() expected error when no artifact matches")
	}
}
