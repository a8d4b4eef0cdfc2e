package engine

import (
	"dashboard/internal/models"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/singleflight"
)

// Params is the input signature of a generated snapshot.
type Params struct {
	Days           int
	InventoryCount int
	Categories     []models.Category
	Seed           uint64
}

// Signature hashes the canonical form of p. Category order and duplicates do not matter.
func (p Params) Signature() uint64 {
	var sb strings.Builder
	fmt.Fprintf(&sb, "days=%d;count=%d;seed=%d;cats=", p.Days, p.InventoryCount, p.Seed)
	for i, c := range normalizeCategories(p.Categories) {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(string(c))
	}
	return xxh3.HashString(sb.String())
}

// Snapshot is one session's generated data. Treat it as read-only.
type Snapshot struct {
	Params      Params
	Series      []models.SalesRecord
	Inventory   []models.InventoryItem
	GeneratedAt time.Time
}

func Generate(p Params) (*Snapshot, error) {
	series, err := GenerateSalesSeries(p.Days, p.Seed)
	if err != nil {
		return nil, err
	}
	inventory, err := GenerateInventory(p.InventoryCount, p.Categories, p.Seed)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Params:      p,
		Series:      series,
		Inventory:   inventory,
		GeneratedAt: time.Now(),
	}, nil
}

// SnapshotCache computes a snapshot once per signature and keeps it until that
// signature is invalidated. Concurrent first calls for the same signature share
// one computation.
type SnapshotCache struct {
	mu       sync.Mutex
	entries  map[uint64]*Snapshot
	group    singleflight.Group
	generate func(Params) (*Snapshot, error)
}

func NewSnapshotCache() *SnapshotCache {
	return NewSnapshotCacheFunc(Generate)
}

// NewSnapshotCacheFunc builds a cache around a custom generator.
func NewSnapshotCacheFunc(generate func(Params) (*Snapshot, error)) *SnapshotCache {
	return &SnapshotCache{
		entries:  make(map[uint64]*Snapshot),
		generate: generate,
	}
}

func (c *SnapshotCache) Get(p Params) (*Snapshot, error) {
	sig := p.Signature()

	c.mu.Lock()
	if snap, ok := c.entries[sig]; ok {
		c.mu.Unlock()
		return snap, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(strconv.FormatUint(sig, 16), func() (interface{}, error) {
		c.mu.Lock()
		if snap, ok := c.entries[sig]; ok {
			c.mu.Unlock()
			return snap, nil
		}
		c.mu.Unlock()

		snap, err := c.generate(p)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[sig] = snap
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Invalidate drops the snapshot cached for p's signature.
func (c *SnapshotCache) Invalidate(p Params) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, p.Signature())
}

func (c *SnapshotCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
