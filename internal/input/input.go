// Package input reads the documents rendered by the fractal command from
// files, standard input or HTTP endpoints.
package input

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Stdin is the location that selects standard input.
const Stdin = "-"

// Source is a document location.
type Source struct {
	location string
	headers  map[string]string
	stdin    io.Reader
	client   *http.Client
}

func New(location string) *Source {
	return &Source{location: location, stdin: os.Stdin}
}

// WithHeaders sets headers sent when the location is an HTTP URL.
func (s *Source) WithHeaders(headers map[string]string) *Source {
	s.headers = headers
	return s
}

// WithStdin replaces the reader used for the Stdin location.
func (s *Source) WithStdin(r io.Reader) *Source {
	s.stdin = r
	return s
}

// WithClient replaces the HTTP client.
func (s *Source) WithClient(c *http.Client) *Source {
	s.client = c
	return s
}

func (s *Source) IsRemote() bool {
	return strings.HasPrefix(s.location, "http://") || strings.HasPrefix(s.location, "https://")
}

// Read returns the raw document.
func (s *Source) Read(ctx context.Context) ([]byte, error) {
	switch {
	case s.location == Stdin:
		return io.ReadAll(s.stdin)
	case s.IsRemote():
		return s.fetch(ctx)
	}

	bs, err := os.ReadFile(s.location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.location, err)
	}
	return bs, nil
}

// Load reads and decodes the document.
func (s *Source) Load(ctx context.Context) (any, error) {
	bs, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(bs)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", s.location, err)
	}
	return doc, nil
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, err
	}
	for name, value := range s.headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	client := s.client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("unsuccessful status code %d from %s", resp.StatusCode, s.location)
	}

	return io.ReadAll(resp.Body)
}

// Decode parses a JSON or YAML document. An empty document decodes to nil.
func Decode(bs []byte) (any, error) {
	if len(bytes.TrimSpace(bs)) == 0 {
		return nil, nil
	}

	var doc any
	if err := yaml.Unmarshal(bs, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
