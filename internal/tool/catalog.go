package tool

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 5 * time.Minute

type Fetcher interface {
	ListTools(ctx context.Context) ([]Tool, error)
	GetTool(ctx context.Context, id string) (Tool, error)
}

// Catalog serves tool details, keeping them for a while since they
// rarely change while a queue server is up.
type Catalog struct {
	log     *zap.Logger
	fetcher Fetcher
	cache   *ttlcache.Cache[string, Tool]
}

func NewCatalog(log *zap.Logger, fetcher Fetcher, ttl time.Duration) *Catalog {
	return &Catalog{
		log:     log,
		fetcher: fetcher,
		cache:   ttlcache.New[string, Tool](ttlcache.WithTTL[string, Tool](ttl)),
	}
}

func (c *Catalog) List(ctx context.Context) ([]Tool, error) {
	tools, err := c.fetcher.ListTools(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetching tools")
	}
	return tools, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (Tool, error) {
	if item := c.cache.Get(id); item != nil {
		return item.Value(), nil
	}

	t, err := c.fetcher.GetTool(ctx, id)
	if err != nil {
		return Tool{}, errors.Wrapf(err, "fetching tool %s", id)
	}

	if t.Schema, err = SortEnums(t.Schema); err != nil {
		return Tool{}, err
	}
	if t.Form, err = SortEnums(t.Form); err != nil {
		return Tool{}, err
	}

	c.cache.Set(id, t, ttlcache.DefaultTTL)
	c.log.Debug("tool cached", zap.String("toolID", id), zap.String("name", t.Name))

	return t, nil
}

func (c *Catalog) ValidateParams(ctx context.Context, toolID string, params map[string]string) error {
	t, err := c.Get(ctx, toolID)
	if err != nil {
		return err
	}
	return ValidateParams(t, params)
}

// Invalidate forgets every cached tool.
func (c *Catalog) Invalidate() {
	c.cache.DeleteAll()
}
