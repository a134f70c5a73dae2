package schema_registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Schema types understood by the registry.
const (
	TypeAvro     = "AVRO"
	TypeProtobuf = "PROTOBUF"
	TypeJSON     = "JSON"
)

const contentType = "application/vnd.schemaregistry.v1+json"

// Registry provides an interface for interacting with a Confluent Schema Registry.
type Registry interface {
	// GetSchemaByID retrieves a schema by its ID.
	GetSchemaByID(ctx context.Context, id int) (string, error)

	// GetLatestSchema retrieves the latest version of a schema for a subject.
	GetLatestSchema(ctx context.Context, subject string) (*Metadata, error)

	// RegisterSchema registers a schema for a subject and returns its ID.
	RegisterSchema(ctx context.Context, subject, schema, schemaType string, refs ...Reference) (int, error)

	// CheckCompatibility checks a schema against the latest version of a subject.
	CheckCompatibility(ctx context.Context, subject, schema, schemaType string, refs ...Reference) (bool, error)

	// ListSubjects lists every registered subject.
	ListSubjects(ctx context.Context) ([]string, error)

	// DeleteSubject soft-deletes a subject and returns the deleted versions.
	DeleteSubject(ctx context.Context, subject string) ([]int, error)
}

// Metadata contains metadata about a registered schema.
type Metadata struct {
	ID         int         `json:"id"`
	Version    int         `json:"version"`
	Schema     string      `json:"schema"`
	Subject    string      `json:"subject"`
	Type       string      `json:"schemaType,omitempty"`
	References []Reference `json:"references,omitempty"`
}

// Reference points a schema at another registered schema it imports.
type Reference struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Version int    `json:"version"`
}

// Client is the default implementation of Registry that talks to
// Confluent Schema Registry over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	username   string
	password   string

	// schemas by ID
	schemaCache      map[int]string
	schemaCacheMutex sync.RWMutex

	// IDs by subject, type and schema text
	idCache      map[string]int
	idCacheMutex sync.RWMutex
}

var _ Registry = (*Client)(nil)

// NewClient creates a new schema registry client.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("schema_registry: URL is required")
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	return &Client{
		url:         strings.TrimRight(config.URL, "/"),
		httpClient:  &http.Client{Timeout: config.Timeout},
		username:    config.Username,
		password:    config.Password,
		schemaCache: make(map[int]string),
		idCache:     make(map[string]int),
	}, nil
}

// do sends a request and decodes a 2xx JSON response into out. Other
// statuses become *APIError.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("schema_registry: marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return fmt.Errorf("schema_registry: create request: %w", err)
	}
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", contentType)
	if in != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("schema_registry: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("schema_registry: decode response: %w", err)
	}
	return nil
}

func subjectPath(subject string) string {
	return "/subjects/" + url.PathEscape(subject)
}

// GetSchemaByID retrieves a schema by its ID. Results are cached.
func (c *Client) GetSchemaByID(ctx context.Context, id int) (string, error) {
	c.schemaCacheMutex.RLock()
	schema, ok := c.schemaCache[id]
	c.schemaCacheMutex.RUnlock()
	if ok {
		return schema, nil
	}

	var result struct {
		Schema string `json:"schema"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/schemas/ids/%d", id), nil, &result); err != nil {
		return "", err
	}

	c.schemaCacheMutex.Lock()
	c.schemaCache[id] = result.Schema
	c.schemaCacheMutex.Unlock()
	return result.Schema, nil
}

// GetLatestSchema retrieves the latest version of a schema for a subject.
func (c *Client) GetLatestSchema(ctx context.Context, subject string) (*Metadata, error) {
	var metadata Metadata
	if err := c.do(ctx, http.MethodGet, subjectPath(subject)+"/versions/latest", nil, &metadata); err != nil {
		return nil, err
	}
	metadata.Subject = subject

	c.schemaCacheMutex.Lock()
	c.schemaCache[metadata.ID] = metadata.Schema
	c.schemaCacheMutex.Unlock()
	return &metadata, nil
}

type schemaRequest struct {
	Schema     string      `json:"schema"`
	SchemaType string      `json:"schemaType,omitempty"`
	References []Reference `json:"references,omitempty"`
}

func newSchemaRequest(schema, schemaType string, refs []Reference) schemaRequest {
	req := schemaRequest{Schema: schema, References: refs}
	// AVRO is the registry default and is omitted.
	if schemaType != "" && schemaType != TypeAvro {
		req.SchemaType = schemaType
	}
	return req
}

// RegisterSchema registers schema under subject and returns its ID.
// Registering an identical schema again returns the cached ID.
func (c *Client) RegisterSchema(ctx context.Context, subject, schema, schemaType string, refs ...Reference) (int, error) {
	cacheKey := subject + ":" + schemaType + ":" + schema
	c.idCacheMutex.RLock()
	id, ok := c.idCache[cacheKey]
	c.idCacheMutex.RUnlock()
	if ok {
		return id, nil
	}

	var result struct {
		ID int `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, subjectPath(subject)+"/versions", newSchemaRequest(schema, schemaType, refs), &result); err != nil {
		return 0, err
	}

	c.idCacheMutex.Lock()
	c.idCache[cacheKey] = result.ID
	c.idCacheMutex.Unlock()
	c.schemaCacheMutex.Lock()
	c.schemaCache[result.ID] = schema
	c.schemaCacheMutex.Unlock()
	return result.ID, nil
}

// CheckCompatibility checks schema against the latest version of subject.
// A subject with no versions yet is compatible with anything.
func (c *Client) CheckCompatibility(ctx context.Context, subject, schema, schemaType string, refs ...Reference) (bool, error) {
	var result struct {
		IsCompatible bool `json:"is_compatible"`
	}
	err := c.do(ctx, http.MethodPost, "/compatibility"+subjectPath(subject)+"/versions/latest", newSchemaRequest(schema, schemaType, refs), &result)
	if IsNotFound(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return result.IsCompatible, nil
}

// ListSubjects lists every registered subject.
func (c *Client) ListSubjects(ctx context.Context) ([]string, error) {
	var subjects []string
	if err := c.do(ctx, http.MethodGet, "/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

// DeleteSubject soft-deletes subject and returns the deleted versions.
func (c *Client) DeleteSubject(ctx context.Context, subject string) ([]int, error) {
	var versions []int
	if err := c.do(ctx, http.MethodDelete, subjectPath(subject), nil, &versions); err != nil {
		return nil, err
	}

	prefix := subject + ":"
	c.idCacheMutex.Lock()
	for k := range c.idCache {
		if strings.HasPrefix(k, prefix) {
			delete(c.idCache, k)
		}
	}
	c.idCacheMutex.Unlock()
	return versions, nil
}
