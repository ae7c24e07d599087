package windowcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/skyplan/internal/domain/astro"
	"github.com/yanqian/skyplan/internal/domain/recommend"
)

// ValkeyCache stores visibility windows as JSON in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "skyplan:window"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

// Get implements recommend.WindowCache.
func (c *ValkeyCache) Get(ctx context.Context, key string) (astro.VisibilityWindow, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return astro.VisibilityWindow{}, false, nil
		}
		return astro.VisibilityWindow{}, false, err
	}
	var window astro.VisibilityWindow
	if err := json.Unmarshal([]byte(payload), &window); err != nil {
		return astro.VisibilityWindow{}, false, err
	}
	return window, true, nil
}

// Set implements recommend.WindowCache.
func (c *ValkeyCache) Set(ctx context.Context, key string, window astro.VisibilityWindow, ttl time.Duration) error {
	payload, err := json.Marshal(window)
	if err != nil {
		return err
	}
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

func (c *ValkeyCache) entryKey(key string) string {
	return c.prefix + ":" + key
}

var _ recommend.WindowCache = (*ValkeyCache)(nil)
