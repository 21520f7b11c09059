// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package include resolves the targets of `%#include` directives in IDL
// sources, from the filesystem or over HTTP, through a shared cache.
package include

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// Fetcher retrieves the text of an included document
type Fetcher interface {
	Fetch(ctx context.Context, location string) (string, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, location string) (string, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) (string, error) {
	return f(ctx, location)
}

// FileFetcher reads documents from the filesystem. Relative locations are
// taken relative to Root, when set.
type FileFetcher struct {
	Root string
}

func (f FileFetcher) Fetch(ctx context.Context, location string) (string, error) {
	path := strings.TrimPrefix(location, "file://")
	if f.Root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(f.Root, path)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// MaxDocumentSize bounds the size of a document fetched over HTTP
const MaxDocumentSize = 16 << 20

// HTTPFetcher fetches documents with GET requests
type HTTPFetcher struct {
	// Client defaults to http.DefaultClient
	Client *http.Client
}

func (f HTTPFetcher) Fetch(ctx context.Context, location string) (string, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", err
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: %s", location, resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return "", err
	}
	if len(b) > MaxDocumentSize {
		return "", fmt.Errorf("fetching %s: document larger than %d bytes", location, MaxDocumentSize)
	}
	return string(b), nil
}

// MultiFetcher dispatches http and https locations to HTTP and everything
// else to File
type MultiFetcher struct {
	File Fetcher
	HTTP Fetcher
}

// DefaultFetcher reads files relative to the working directory and URLs
// with http.DefaultClient
func DefaultFetcher() MultiFetcher {
	return MultiFetcher{File: FileFetcher{}, HTTP: HTTPFetcher{}}
}

func (f MultiFetcher) Fetch(ctx context.Context, location string) (string, error) {
	if isURL(location) {
		if f.HTTP == nil {
			return "", fmt.Errorf("fetching %s: no HTTP fetcher configured", location)
		}
		return f.HTTP.Fetch(ctx, location)
	}

	if f.File == nil {
		return "", fmt.Errorf("fetching %s: no file fetcher configured", location)
	}
	return f.File.Fetch(ctx, location)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Join resolves ref against the location of the including document. URLs
// are resolved as references; paths relative to the directory of base (or
// to base itself when it ends in a slash).
func Join(base, ref string) string {
	if isURL(ref) || filepath.IsAbs(ref) || base == "" {
		return ref
	}

	if isURL(base) {
		bu, err := url.Parse(base)
		if err != nil {
			return ref
		}
		ru, err := url.Parse(ref)
		if err != nil {
			return ref
		}
		return bu.ResolveReference(ru).String()
	}

	dir := base
	if !strings.HasSuffix(base, "/") {
		dir = filepath.Dir(base)
	}
	return filepath.Join(dir, ref)
}
