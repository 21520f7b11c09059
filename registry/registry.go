// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package registry holds compiled manifests by namespace and name, so that
// a process compiles each schema once and can hand out its manifests (or
// whole namespaces in interchange form) on demand.
package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"go.e43.eu/xdrschema"
	"go.e43.eu/xdrschema/include"
	"go.e43.eu/xdrschema/interchange"
	"go.e43.eu/xdrschema/internal/compiler"
	"go.e43.eu/xdrschema/manifest"
)

// AnonymousNamespace holds manifests compiled from sources which declare
// no namespace
const AnonymousNamespace = "_anon"

// Export formats
const (
	FormatXDR  = "xdr"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Options configures a Registry
type Options struct {
	// Resolver fetches sources given by location and their includes. When
	// nil, a resolver over include.DefaultFetcher is created.
	Resolver *include.Resolver

	// Base against which source locations are resolved
	Base string

	Logger *zap.Logger

	// Registerer receives the registry size gauge; nil leaves it
	// unregistered
	Registerer prometheus.Registerer
}

// Registry is safe for concurrent use
type Registry struct {
	opts Options
	log  *zap.Logger
	size prometheus.Gauge

	mu        sync.RWMutex
	manifests map[string]map[string]*manifest.Manifest
}

func New(opts Options) *Registry {
	r := &Registry{
		opts:      opts,
		log:       opts.Logger,
		manifests: make(map[string]map[string]*manifest.Manifest),
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.opts.Resolver == nil {
		r.opts.Resolver = include.NewResolver(include.DefaultFetcher(), include.Options{Logger: r.log})
	}

	r.size = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "xdrschema_registry_manifests",
		Help: "Manifests held by the registry",
	})
	if opts.Registerer != nil {
		if err := opts.Registerer.Register(r.size); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				if g, ok := are.ExistingCollector.(prometheus.Gauge); ok {
					r.size = g
				}
			}
		}
	}
	return r
}

func namespaceOf(m *manifest.Manifest) string {
	if m.Namespace == "" {
		return AnonymousNamespace
	}
	return m.Namespace
}

// Load compiles source and stores the result. A source containing no `;`
// cannot be IDL, and is instead treated as the path or URL of the IDL to
// load. entry may be empty to infer the entry type.
//
// When a manifest is already stored under the requested name (the entry,
// unless overridden by WithName) and namespace (WithNamespace, or the
// anonymous namespace), it is returned without fetching or compiling.
func (r *Registry) Load(ctx context.Context, source, entry string, opts ...xdrschema.CompileOption) (*manifest.Manifest, error) {
	want := compiler.Options{Entry: entry}
	for _, opt := range opts {
		opt(&want)
	}
	name := want.Name
	if name == "" {
		name = want.Entry
	}
	if name != "" {
		if m, ok := r.Get(want.Namespace, name); ok {
			r.log.Debug("manifest already loaded",
				zap.String("namespace", namespaceOf(m)),
				zap.String("name", name))
			return m, nil
		}
	}

	base := r.opts.Base
	if !strings.Contains(source, ";") {
		location := include.Join(base, strings.TrimSpace(source))
		text, err := r.opts.Resolver.Fetch(ctx, location)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", location, err)
		}
		source, base = text, location
	}

	copts := []xdrschema.CompileOption{
		xdrschema.WithIncludes(r.opts.Resolver, base),
		xdrschema.WithLogger(r.log),
	}
	if entry != "" {
		copts = append(copts, xdrschema.WithEntry(entry))
	}
	copts = append(copts, opts...)

	m, err := xdrschema.CompileContext(ctx, source, copts...)
	if err != nil {
		return nil, err
	}

	r.Put(m)
	r.log.Debug("loaded manifest",
		zap.String("namespace", namespaceOf(m)),
		zap.String("name", m.Name),
		zap.Int("types", len(m.Names())))
	return m, nil
}

// Put stores m under its namespace and name, replacing any previous
// manifest there
func (r *Registry) Put(m *manifest.Manifest) {
	ns := namespaceOf(m)

	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.manifests[ns]
	if !ok {
		byName = make(map[string]*manifest.Manifest)
		r.manifests[ns] = byName
	}
	if _, exists := byName[m.Name]; !exists {
		r.size.Inc()
	}
	byName[m.Name] = m
}

// Get returns the manifest stored under ns and name. An empty ns means the
// anonymous namespace.
func (r *Registry) Get(ns, name string) (*manifest.Manifest, bool) {
	if ns == "" {
		ns = AnonymousNamespace
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.manifests[ns][name]
	return m, ok
}

// Namespace returns the manifests of ns, ordered by name
func (r *Registry) Namespace(ns string) []*manifest.Manifest {
	if ns == "" {
		ns = AnonymousNamespace
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	byName := r.manifests[ns]
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	ms := make([]*manifest.Manifest, len(names))
	for i, name := range names {
		ms[i] = byName[name]
	}
	return ms
}

// Namespaces returns the names of all populated namespaces
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nss := make([]string, 0, len(r.manifests))
	for ns := range r.manifests {
		nss = append(nss, ns)
	}
	sort.Strings(nss)
	return nss
}

// Export renders the manifests of ns as a TypeCollection. FormatXDR
// yields base64 text.
func (r *Registry) Export(ns, format string) (string, error) {
	ms := r.Namespace(ns)

	switch format {
	case FormatXDR, "":
		return interchange.MarshalText(ms...)
	case FormatJSON:
		b, err := interchange.MarshalJSON(ms...)
		return string(b), err
	case FormatYAML:
		b, err := interchange.MarshalYAML(ms...)
		return string(b), err
	default:
		return "", fmt.Errorf("registry: unknown export format %q", format)
	}
}
