package cache

import (
	"sort"
	"time"
)

// SlotInfo describes one populated slot.
type SlotInfo struct {
	Name    string
	KeySize int
	Updated time.Time
}

// Info is a point-in-time view of the cache.
type Info struct {
	Slots  []SlotInfo
	Hits   int64
	Misses int64
}

// Info returns the populated slots sorted by name and the hit counters.
func (c *Cache) Info() *Info {
	snap := *c.state.Load()
	result := &Info{
		Slots:  make([]SlotInfo, 0, len(snap)),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	for name, e := range snap {
		result.Slots = append(result.Slots, SlotInfo{
			Name:    name,
			KeySize: len(e.Key),
			Updated: e.Updated,
		})
	}
	sort.Slice(result.Slots, func(i, j int) bool {
		return result.Slots[i].Name < result.Slots[j].Name
	})
	return result
}
