package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/svrx-labs/svrx/internal/branding"
)

const (
	abbreviatedAccept  = "application/vnd.npm.install-v1+json; q=1.0, application/json; q=0.8"
	defaultConcurrency = 8
)

// HTTPClient talks to an npm-compatible registry over HTTP. Packuments are
// cached for the lifetime of the client.
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	concurrency int

	mu    sync.Mutex
	cache map[string]*Packument
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

// WithRegistryURL sets the registry base URL. Empty values are ignored.
func WithRegistryURL(u string) Option {
	return func(h *HTTPClient) {
		if u != "" {
			h.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithConcurrency bounds the number of parallel tarball downloads.
func WithConcurrency(n int) Option {
	return func(h *HTTPClient) {
		if n > 0 {
			h.concurrency = n
		}
	}
}

// New creates a registry client with the given options.
func New(opts ...Option) *HTTPClient {
	h := &HTTPClient{
		baseURL:     strings.TrimRight(branding.RegistryURL(), "/"),
		httpClient:  http.DefaultClient,
		concurrency: defaultConcurrency,
		cache:       make(map[string]*Packument),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BaseURL returns the registry base URL.
func (h *HTTPClient) BaseURL() string {
	return h.baseURL
}

// Versions returns every published version of name, lowest first. Entries
// that are not valid semantic versions are dropped.
func (h *HTTPClient) Versions(ctx context.Context, name string) ([]string, error) {
	p, err := h.packument(ctx, name)
	if err != nil {
		return nil, err
	}

	parsed := make([]*semver.Version, 0, len(p.Versions))
	for v := range p.Versions {
		sv, err := semver.StrictNewVersion(v)
		if err != nil {
			continue
		}
		parsed = append(parsed, sv)
	}
	sort.Sort(semver.Collection(parsed))

	versions := make([]string, len(parsed))
	for i, sv := range parsed {
		versions[i] = sv.Original()
	}
	return versions, nil
}

// DistTags returns the dist-tag mapping of name.
func (h *HTTPClient) DistTags(ctx context.Context, name string) (map[string]string, error) {
	p, err := h.packument(ctx, name)
	if err != nil {
		return nil, err
	}
	tags := make(map[string]string, len(p.DistTags))
	for k, v := range p.DistTags {
		tags[k] = v
	}
	return tags, nil
}

// Resolve turns spec into a concrete published version of name.
func (h *HTTPClient) Resolve(ctx context.Context, name, spec string) (string, error) {
	p, err := h.packument(ctx, name)
	if err != nil {
		return "", err
	}
	m, err := resolveSpec(p, spec)
	if err != nil {
		return "", err
	}
	return m.Version, nil
}

// packument fetches (or returns the cached) registry document for name.
func (h *HTTPClient) packument(ctx context.Context, name string) (*Packument, error) {
	h.mu.Lock()
	if p, ok := h.cache[name]; ok {
		h.mu.Unlock()
		return p, nil
	}
	h.mu.Unlock()

	endpoint := h.baseURL + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", abbreviatedAccept)
	req.Header.Set("User-Agent", branding.CLIName()+"-cli")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package %s: %w", name, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for %s", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var p Packument
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("parsing packument for %s: %w", name, err)
	}
	if p.Name == "" {
		p.Name = name
	}

	h.mu.Lock()
	h.cache[name] = &p
	h.mu.Unlock()
	return &p, nil
}
