package sentry_ext

import (
	"crypto/md5"
	"encoding/hex"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultRecentWindow = 5 * time.Minute
	defaultCacheSize    = 100
)

type cache struct {
	*lru.Cache

	window time.Duration
	now    func() time.Time
}

func newCache(size int, window time.Duration) (*cache, error) {
	if size <= 0 {
		size = defaultCacheSize
	}
	if window <= 0 {
		window = defaultRecentWindow
	}
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &cache{Cache: c, window: window, now: time.Now}, nil
}

// shouldCapture reports whether a message has not been sent within the
// recent window, and records it as sent if so.
func (c *cache) shouldCapture(msg string) bool {
	sum := md5.Sum([]byte(msg))
	hash := hex.EncodeToString(sum[:])

	now := c.now()
	if lastSent, exists := c.Get(hash); exists {
		if now.Sub(lastSent.(time.Time)) < c.window {
			return false
		}
	}

	c.Add(hash, now)
	return true
}
