// Package supabase provides a remote document store adapter using
// Supabase Storage.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/campus-labs/deptchat/internal/core/domain"
	"github.com/campus-labs/deptchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RemoteStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultBucket       = "pdfs"
	DefaultTimeout      = 60 * time.Second
	DefaultListPageSize = 1000

	// DefaultRequestsPerSecond caps outbound calls so a large sync does
	// not trip the hosted API's rate limits.
	DefaultRequestsPerSecond = 10
)

// Config holds configuration for the Supabase storage store.
type Config struct {
	// ProjectURL is the Supabase project URL
	// (e.g. https://xyzcompany.supabase.co).
	ProjectURL string

	// APIKey is the anon or service role key sent on every request.
	APIKey string

	// Bucket is the storage bucket name (default: pdfs).
	Bucket string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond caps the request rate (default: 10).
	RequestsPerSecond float64
}

// Store accesses documents in a Supabase Storage bucket.
type Store struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	bucket  string
}

// listRequest is the Supabase storage list request format.
type listRequest struct {
	Prefix string     `json:"prefix"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
	SortBy listSortBy `json:"sortBy"`
}

type listSortBy struct {
	Column string `json:"column"`
	Order  string `json:"order"`
}

// listEntry is one object in the list response.
type listEntry struct {
	Name      string    `json:"name"`
	UpdatedAt time.Time `json:"updated_at"`
	Metadata  *struct {
		Size int64 `json:"size"`
	} `json:"metadata"`
}

// deleteRequest is the Supabase storage delete request format.
type deleteRequest struct {
	Prefixes []string `json:"prefixes"`
}

// NewStore creates a Supabase storage store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("%w: supabase project URL is required", domain.ErrInvalidInput)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: supabase API key is required", domain.ErrInvalidInput)
	}
	if cfg.Bucket == "" {
		cfg.Bucket = DefaultBucket
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	return &Store{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		baseURL: strings.TrimRight(cfg.ProjectURL, "/"),
		apiKey:  cfg.APIKey,
		bucket:  cfg.Bucket,
	}, nil
}

// List enumerates all files in the bucket, paging through the listing
// endpoint until a short page signals the end.
func (s *Store) List(ctx context.Context) ([]domain.RemoteFile, error) {
	var files []domain.RemoteFile

	for offset := 0; ; offset += DefaultListPageSize {
		page, err := s.listPage(ctx, offset)
		if err != nil {
			return nil, err
		}

		for _, entry := range page {
			// Folder placeholders have no metadata.
			if entry.Metadata == nil {
				continue
			}
			files = append(files, domain.RemoteFile{
				Name:      entry.Name,
				Size:      entry.Metadata.Size,
				UpdatedAt: entry.UpdatedAt,
			})
		}

		if len(page) < DefaultListPageSize {
			return files, nil
		}
	}
}

// listPage fetches one page of the bucket listing.
func (s *Store) listPage(ctx context.Context, offset int) ([]listEntry, error) {
	reqBody := listRequest{
		Prefix: "",
		Limit:  DefaultListPageSize,
		Offset: offset,
		SortBy: listSortBy{Column: "name", Order: "asc"},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/list/%s", s.baseURL, s.bucket)
	resp, err := s.do(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody), "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("list objects", resp)
	}

	var entries []listEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return entries, nil
}

// Download fetches a file's content by name.
func (s *Store) Download(ctx context.Context, name string) ([]byte, error) {
	resp, err := s.do(ctx, http.MethodGet, s.objectURL(name), http.NoBody, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError("download "+name, resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// Upload stores content under a name, replacing any existing object.
func (s *Store) Upload(ctx context.Context, name string, content []byte) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	s.authorise(req)
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("x-upsert", "true")

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("upload "+name, resp)
	}
	return nil
}

// Delete removes the named objects from the bucket.
func (s *Store) Delete(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}

	jsonBody, err := json.Marshal(deleteRequest{Prefixes: names})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, s.bucket)
	resp, err := s.do(ctx, http.MethodDelete, endpoint, bytes.NewReader(jsonBody), "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError("delete objects", resp)
	}
	return nil
}

// PublicURL returns the stable public URL for a named object.
func (s *Store) PublicURL(name string) string {
	return s.objectURL(name)
}

// objectURL builds the public download URL for an object.
func (s *Store) objectURL(name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, url.PathEscape(name))
}

// do sends one rate-limited request with auth headers applied.
func (s *Store) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.authorise(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	return resp, nil
}

// authorise sets the Supabase auth headers.
func (s *Store) authorise(req *http.Request) {
	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
}

// apiError formats a non-200 response into an error.
func apiError(op string, resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("supabase error (status %d): %s: failed to read response", resp.StatusCode, op)
	}
	return fmt.Errorf("supabase error (status %d): %s: %s", resp.StatusCode, op, string(body))
}
