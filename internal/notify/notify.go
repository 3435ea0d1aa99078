package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jellydator/ttlcache/v3"
	"go.uber.org/zap"
)

// DefaultTTL is how long a notification stays active before it is dismissed.
const DefaultTTL = 5 * time.Second

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

type Notification struct {
	ID        uuid.UUID
	Level     Level
	Message   string
	CreatedAt time.Time
}

type Publisher interface {
	Publish(level Level, message string)
}

// Center keeps transient notifications and fans them out to subscribers.
type Center struct {
	log   *zap.Logger
	cache *ttlcache.Cache[uuid.UUID, Notification]

	mu   sync.Mutex
	subs map[chan Notification]struct{}
}

var _ Publisher = (*Center)(nil)

func NewCenter(log *zap.Logger, ttl time.Duration) *Center {
	return &Center{
		log: log,
		cache: ttlcache.New[uuid.UUID, Notification](
			ttlcache.WithTTL[uuid.UUID, Notification](ttl),
			ttlcache.WithDisableTouchOnHit[uuid.UUID, Notification](),
		),
		subs: make(map[chan Notification]struct{}),
	}
}

func (c *Center) Publish(level Level, message string) {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}

	c.log.Info("notification",
		zap.String("level", string(level)),
		zap.String("message", message),
	)

	c.cache.Set(n.ID, n, ttlcache.DefaultTTL)

	c.mu.Lock()
	defer c.mu.Unlock()

	for sub := range c.subs {
		// Slow subscribers miss notifications instead of blocking callers.
		select {
		case sub <- n:
		default:
		}
	}
}

// Active returns notifications that have not been dismissed yet, oldest first.
func (c *Center) Active() []Notification {
	items := c.cache.Items()

	active := make([]Notification, 0, len(items))
	for _, item := range items {
		if item.IsExpired() {
			continue
		}
		active = append(active, item.Value())
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	return active
}

// Dismiss removes a notification before its TTL runs out.
func (c *Center) Dismiss(id uuid.UUID) {
	c.cache.Delete(id)
}

func (c *Center) Subscribe(buf int) (<-chan Notification, func()) {
	ch := make(chan Notification, buf)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}

	return ch, cancel
}

// Run evicts expired notifications until ctx is done.
func (c *Center) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		c.cache.Start()
	}()

	<-ctx.Done()
	c.cache.Stop()
	<-done
}
