package rules

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultCatalogSize bounds the number of rules a Catalog keeps
const DefaultCatalogSize = 4096

// Catalog resolves rule keys to their metadata, memoizing successful lookups.
//
// A Catalog belongs to one analysis run: create a new one per run so that rule
// metadata edited on the server between runs is picked up. Failed lookups are
// not cached; the next Get for the same key calls the service again.
type Catalog struct {
	service Service
	cache   *lru.Cache[Key, *Rule]
}

// NewCatalog creates a catalog backed by service holding at most size rules.
// A size <= 0 selects DefaultCatalogSize.
func NewCatalog(service Service, size int) (*Catalog, error) {
	if service == nil {
		return nil, goerr.New("rule service is required")
	}
	if size <= 0 {
		size = DefaultCatalogSize
	}
	cache, err := lru.New[Key, *Rule](size)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create rule cache", goerr.V("size", size))
	}
	return &Catalog{service: service, cache: cache}, nil
}

// Get returns the rule for key, fetching it from the service on first use
func (c *Catalog) Get(ctx context.Context, key Key) (*Rule, error) {
	if rule, ok := c.cache.Get(key); ok {
		return rule, nil
	}

	rule, err := c.service.ShowRule(ctx, key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get rule", goerr.V("rule", key.String()))
	}
	if rule == nil {
		return nil, nil
	}

	c.cache.Add(key, rule)
	return rule, nil
}

// Len returns the number of cached rules
func (c *Catalog) Len() int {
	return c.cache.Len()
}

// Purge drops every cached rule
func (c *Catalog) Purge() {
	c.cache.Purge()
}
