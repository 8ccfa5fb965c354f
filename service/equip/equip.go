// Package equip validates inventory-to-equipment drops. The drag payload is
// a JSON-serialized item record; a drop lands only when the item's slot
// matches the target slot.
package equip

import (
	"encoding/json"
	"errors"

	"showtime/api/log"
	"showtime/api/model"
)

var (
	ErrMalformedPayload = errors.New("malformed drag payload")
	ErrSlotMismatch     = errors.New("item does not fit target slot")
)

// ValidateDrop parses the drag transfer payload and checks it against the
// target slot. Both failure modes are recoverable: the drop is rejected with
// a logged warning, never surfaced as a fatal error.
func ValidateDrop(payload []byte, targetSlot string) (model.Item, error) {
	var item model.Item
	if err := json.Unmarshal(payload, &item); err != nil {
		log.Warnf("equip: malformed drop payload: %v", err)
		return model.Item{}, ErrMalformedPayload
	}
	if item.ID == "" || item.Slot == "" {
		log.Warnf("equip: drop payload missing id or slot")
		return model.Item{}, ErrMalformedPayload
	}
	if item.Slot != targetSlot {
		log.Warnf("equip: item %s slot %q does not match target %q", item.ID, item.Slot, targetSlot)
		return model.Item{}, ErrSlotMismatch
	}
	return item, nil
}
