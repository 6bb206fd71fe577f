package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// LineItem is one frozen entry of an order's cart: the variant's display
// name, unit price and quantity as they were at checkout time. The engine
// never dereferences back into the live catalog for pricing.
type LineItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CartSnapshot is the frozen form of a cart, keyed by the variant id
// rendered as a decimal string (the stored JSON object keys).
type CartSnapshot map[string]LineItem

// EncodeCartSnapshot serializes a snapshot into the form stored on the
// Order's cart column.
func EncodeCartSnapshot(s CartSnapshot) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode cart snapshot: %w", err)
	}
	return string(raw), nil
}

// DecodeCartSnapshot parses a stored cart back into line items. It is a
// pure read; mutating the result never touches the persisted order.
func DecodeCartSnapshot(raw string) (CartSnapshot, error) {
	var s CartSnapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return s, nil
}

// Total sums unit price times quantity over all line items.
func (s CartSnapshot) Total() float64 {
	var total float64
	for _, item := range s {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// VariantIDs returns the variant ids of the snapshot in ascending order,
// so that inventory walks and rendered receipts are deterministic.
func (s CartSnapshot) VariantIDs() []int64 {
	ids := make([]int64, 0, len(s))
	for key := range s {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			// Keys are written by EncodeCartSnapshot from int64 ids, so a
			// bad key means hand-edited data; skip it rather than abort.
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Item returns the line item stored under the given variant id.
func (s CartSnapshot) Item(variantID int64) (LineItem, bool) {
	item, ok := s[strconv.FormatInt(variantID, 10)]
	return item, ok
}

// SetItem stores a line item under the given variant id.
func (s CartSnapshot) SetItem(variantID int64, item LineItem) {
	s[strconv.FormatInt(variantID, 10)] = item
}
