// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package include

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Options configures a Resolver
type Options struct {
	// TTL of cached documents; zero caches forever
	TTL time.Duration

	// MaxEntries bounds the number of cached documents; zero is unbounded
	MaxEntries int

	// Timeout bounds each fetch; zero means no limit beyond the caller's
	// context
	Timeout time.Duration

	Logger  *zap.Logger
	Metrics *Metrics
}

// Resolver resolves include references to documents, fetching each
// location at most once while it remains cached. It is safe for concurrent
// use; concurrent fetches of one location are collapsed into one.
type Resolver struct {
	fetcher Fetcher
	cache   *Cache
	opts    Options
	log     *zap.Logger
	group   singleflight.Group
}

func NewResolver(f Fetcher, opts Options) *Resolver {
	r := &Resolver{
		fetcher: f,
		cache:   NewCache(opts.TTL, opts.MaxEntries),
		opts:    opts,
		log:     opts.Logger,
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	return r
}

// Cache exposes the resolver's document cache
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Locate resolves ref relative to base
func (r *Resolver) Locate(base, ref string) string {
	return Join(base, ref)
}

// Fetch returns the document at location. Fetcher errors are returned
// unmodified.
func (r *Resolver) Fetch(ctx context.Context, location string) (string, error) {
	if text, ok := r.cache.Get(location); ok {
		r.opts.Metrics.hit()
		r.log.Debug("include cache hit", zap.String("location", location))
		return text, nil
	}
	r.opts.Metrics.miss()

	v, err, shared := r.group.Do(location, func() (interface{}, error) {
		fctx := ctx
		if r.opts.Timeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
			defer cancel()
		}

		text, err := r.fetcher.Fetch(fctx, location)
		if err != nil {
			return nil, err
		}
		r.cache.Put(location, text)
		return text, nil
	})
	if err != nil {
		r.opts.Metrics.fetchError()
		r.log.Debug("include fetch failed", zap.String("location", location), zap.Error(err))
		return "", err
	}

	r.log.Debug("fetched include", zap.String("location", location), zap.Bool("shared", shared))
	return v.(string), nil
}
