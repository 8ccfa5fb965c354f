package model

import (
	"encoding/json"
	"fmt"
)

// Record is one entry of a collection. Shape is collection-specific; the only
// field the store itself relies on is "id".
type Record map[string]interface{}

func (r Record) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Clone returns a shallow copy. Mutating the copy's top-level keys never
// touches the original.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Crawler is a player character sheet, the "crawlers" collection.
type Crawler struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Class     string            `json:"class"`
	Race      string            `json:"race"`
	Level     int               `json:"level"`
	HP        int               `json:"hp"`
	MaxHP     int               `json:"max_hp"`
	Gold      int               `json:"gold"`
	Notes     string            `json:"notes"`
	Portrait  string            `json:"portrait"`
	OwnerNo   string            `json:"owner_no"`
	Equipment map[string]string `json:"equipment"`
}

// Mob is a monster entry, the "mobs" collection.
type Mob struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`
	HP    int    `json:"hp"`
	MaxHP int    `json:"max_hp"`
	Image string `json:"image"`
	Notes string `json:"notes"`
}

// Item is an inventory entry, the "items" collection. Slot names the single
// equipment slot the item fits; empty means not equippable.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slot        string `json:"slot"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
	Quantity    int    `json:"quantity"`
}

var schemaProbes = map[string]func() interface{}{
	ColCrawlers: func() interface{} { return &Crawler{} },
	ColMobs:     func() interface{} { return &Mob{} },
	ColMaps:     func() interface{} { return &MapInfo{} },
	ColItems:    func() interface{} { return &Item{} },
}

// ValidateRecord checks a record at the store boundary. Every record needs a
// non-empty string id. Collections with a registered schema must also decode
// cleanly into their typed shape (schema-on-write); unknown collections pass
// with the id check alone.
func ValidateRecord(collection string, r Record) error {
	if r == nil {
		return fmt.Errorf("nil record")
	}
	if r.ID() == "" {
		return fmt.Errorf("collection %q: record missing string id", collection)
	}
	probe, ok := schemaProbes[collection]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("collection %q: %w", collection, err)
	}
	// Extra fields are fine (the source kept records loose); wrong types for
	// known fields are not.
	if err := json.Unmarshal(raw, probe()); err != nil {
		return fmt.Errorf("collection %q: record %s does not match schema: %w", collection, r.ID(), err)
	}
	return nil
}
