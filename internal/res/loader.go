package res

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gompdf/doclayout/internal/model"
)

// ResourceType represents the type of resource
type ResourceType int

const (
	// ResourceTypeUnknown is an unknown resource type
	ResourceTypeUnknown ResourceType = iota
	// ResourceTypeDocument is a serialized semantic document
	ResourceTypeDocument
	// ResourceTypeImage is an image referenced by a figure block
	ResourceTypeImage
	// ResourceTypeOther is any other resource
	ResourceTypeOther
)

// Mime types of persisted documents
const (
	MimeJSON = "application/json"
	MimeCBOR = "application/cbor"
)

// ErrNotDocument is returned when a resource does not hold a document
var ErrNotDocument = errors.New("resource is not a document")

// Resource represents a loaded resource
type Resource struct {
	URL      string
	Type     ResourceType
	Data     []byte
	MimeType string
}

// Loader fetches document blobs from files, search paths, http(s) and
// data URLs. Results are cached by the requested location.
type Loader struct {
	// Base URL or file path for resolving relative locations
	BaseURL string

	cache     map[string]*Resource
	cacheLock sync.RWMutex

	searchPaths []string

	client *http.Client
}

// NewLoader creates a new resource loader
func NewLoader(baseURL string) *Loader {
	return &Loader{
		BaseURL: baseURL,
		cache:   make(map[string]*Resource),
		client:  &http.Client{},
	}
}

// SetHTTPClient replaces the client used for remote resources
func (l *Loader) SetHTTPClient(client *http.Client) {
	l.client = client
}

// AddSearchPath adds a directory to search for local resources
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// Load loads a resource from a URL or file path
func (l *Loader) Load(ctx context.Context, location string) (*Resource, error) {
	l.cacheLock.RLock()
	if res, ok := l.cache[location]; ok {
		l.cacheLock.RUnlock()
		return res, nil
	}
	l.cacheLock.RUnlock()

	var res *Resource
	var err error
	if strings.HasPrefix(location, "data:") {
		res, err = parseDataURL(location)
	} else {
		var resolved string
		resolved, err = l.resolveURL(location)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", location, err)
		}
		if isRemote(resolved) {
			res, err = l.loadRemote(ctx, resolved)
		} else {
			res, err = l.loadLocal(resolved)
		}
	}
	if err != nil {
		return nil, err
	}

	l.cacheLock.Lock()
	l.cache[location] = res
	l.cacheLock.Unlock()
	return res, nil
}

// LoadDocument loads and decodes a document. The mime type, or else the
// file extension, selects JSON or CBOR.
func (l *Loader) LoadDocument(ctx context.Context, location string) (*model.SemanticDocument, error) {
	res, err := l.Load(ctx, location)
	if err != nil {
		return nil, err
	}
	if res.Type != ResourceTypeDocument {
		return nil, fmt.Errorf("%w: %s (%s)", ErrNotDocument, location, res.MimeType)
	}
	doc, err := model.DecodeDocument(res.Data, model.FormatFor(res.MimeType))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", location, err)
	}
	return doc, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// parseDataURL parses a data URL (RFC 2397):
//
//	data:application/json;base64,<base64>
//	data:application/json,%7B%22id%22%3A%22d%22%7D
func parseDataURL(u string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(u, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "application/octet-stream"
	isBase64 := false
	comps := strings.Split(meta, ";")
	if comps[0] != "" {
		mime = comps[0]
	}
	for _, c := range comps[1:] {
		if strings.EqualFold(strings.TrimSpace(c), "base64") {
			isBase64 = true
		}
	}

	var data []byte
	if isBase64 {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = decoded
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}

	return &Resource{URL: u, Data: data, MimeType: mime, Type: determineResourceType(mime, "")}, nil
}

// resolveURL resolves a location relative to the base URL
func (l *Loader) resolveURL(location string) (string, error) {
	if isRemote(location) || filepath.IsAbs(location) {
		return location, nil
	}
	if !isRemote(l.BaseURL) {
		return filepath.Join(filepath.Dir(l.BaseURL), location), nil
	}

	base, err := url.Parse(l.BaseURL)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

// loadRemote loads a resource from a remote URL
func (l *Loader) loadRemote(ctx context.Context, location string) (*Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", MimeJSON+", "+MimeCBOR)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}

	mime := resp.Header.Get("Content-Type")
	if mime == "" || strings.HasPrefix(mime, "application/octet-stream") || strings.HasPrefix(mime, "text/plain") {
		mime = determineMimeType(location)
	}
	return &Resource{
		URL:      location,
		Data:     data,
		MimeType: mime,
		Type:     determineResourceType(mime, location),
	}, nil
}

// loadLocal loads a resource from a local file, falling back to the search
// paths when it does not exist
func (l *Loader) loadLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l.loadFromSearchPaths(path)
	}
	if err != nil {
		return nil, err
	}
	return localResource(path, data), nil
}

// loadFromSearchPaths tries to load a resource from the search paths
func (l *Loader) loadFromSearchPaths(filename string) (*Resource, error) {
	base := filepath.Base(filename)
	for _, dir := range l.searchPaths {
		path := filepath.Join(dir, base)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		return localResource(path, data), nil
	}
	return nil, fmt.Errorf("resource not found: %s", filename)
}

func localResource(path string, data []byte) *Resource {
	mime := determineMimeType(path)
	return &Resource{URL: path, Data: data, MimeType: mime, Type: determineResourceType(mime, path)}
}

// determineMimeType determines the MIME type of a file
func determineMimeType(location string) string {
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		location = u.Path
	}
	switch strings.ToLower(filepath.Ext(location)) {
	case ".json":
		return MimeJSON
	case ".cbor":
		return MimeCBOR
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// determineResourceType determines the type of a resource
func determineResourceType(mimeType, path string) ResourceType {
	mimeType = strings.ToLower(mimeType)
	switch {
	case strings.Contains(mimeType, "json"), strings.Contains(mimeType, "cbor"):
		return ResourceTypeDocument
	case strings.HasPrefix(mimeType, "image/"):
		return ResourceTypeImage
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".cbor":
		return ResourceTypeDocument
	case ".jpg", ".jpeg", ".png", ".svg":
		return ResourceTypeImage
	}
	return ResourceTypeOther
}
