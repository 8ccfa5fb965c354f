package mycache

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"showtime/api/service/game"
)

const renderCacheTTL = 30 * time.Second

var RenderCache *ristretto.Cache[string, *game.RenderPayload]

func init() {
	cache, err := ristretto.NewCache[string, *game.RenderPayload](&ristretto.Config[string, *game.RenderPayload]{
		NumCounters: 10000,
		MaxCost:     100 * 1024 * 1024, // render payloads carry the map image data URI
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	RenderCache = cache
}

func renderKey(mapID, role string) string {
	return mapID + "|" + role
}

// GetRender reads a cached per-role map render, ok on hit.
func GetRender(mapID, role string) (*game.RenderPayload, bool) {
	RenderCache.Wait()
	return RenderCache.Get(renderKey(mapID, role))
}

// SetRender caches an assembled render. Cost tracks the image size since
// that dominates the payload.
func SetRender(mapID, role string, payload *game.RenderPayload) {
	if payload == nil {
		return
	}
	cost := int64(len(payload.Image))
	if cost == 0 {
		cost = 1
	}
	RenderCache.SetWithTTL(renderKey(mapID, role), payload, cost, renderCacheTTL)
	RenderCache.Wait()
}

// Invalidate drops every cached role view of a map.
func Invalidate(mapID string) {
	for _, role := range []string{"dm", "player", "spectator"} {
		RenderCache.Del(renderKey(mapID, role))
	}
}

// Clear empties the whole cache, used when a snapshot replace touches
// everything.
func Clear() {
	RenderCache.Clear()
}
