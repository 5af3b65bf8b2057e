package exchange

import "strconv"

// OrderIDs carries the identifiers the exchange reports for one order.
type OrderIDs struct {
	OID   string
	Cloid string
}

// OrderStatus is one entry of response.data.statuses. Exactly one of
// Resting, Filled, or Err is set for well-formed responses; a zero value
// means the entry had an unknown shape.
type OrderStatus struct {
	Resting *OrderIDs
	Filled  *OrderIDs
	Err     string
}

// ParseOrderStatuses extracts the per-order statuses from a decoded
// /exchange order response. Unknown shapes produce zero-value entries
// rather than being dropped, so positions line up with the submitted
// orders.
func ParseOrderStatuses(resp map[string]any) []OrderStatus {
	response, _ := resp["response"].(map[string]any)
	data, _ := response["data"].(map[string]any)
	raw, _ := data["statuses"].([]any)
	if len(raw) == 0 {
		return nil
	}
	statuses := make([]OrderStatus, 0, len(raw))
	for _, entry := range raw {
		statuses = append(statuses, parseOrderStatus(entry))
	}
	return statuses
}

func parseOrderStatus(entry any) OrderStatus {
	m, ok := entry.(map[string]any)
	if !ok {
		return OrderStatus{}
	}
	if resting, ok := m["resting"].(map[string]any); ok {
		ids := parseOrderIDs(resting)
		return OrderStatus{Resting: &ids}
	}
	if filled, ok := m["filled"].(map[string]any); ok {
		ids := parseOrderIDs(filled)
		return OrderStatus{Filled: &ids}
	}
	if msg, ok := m["error"].(string); ok {
		return OrderStatus{Err: msg}
	}
	return OrderStatus{}
}

func parseOrderIDs(m map[string]any) OrderIDs {
	return OrderIDs{
		OID:   stringFromAny(m["oid"]),
		Cloid: stringFromAny(m["cloid"]),
	}
}

// OrderRef picks a reference for the whole placement: the first status
// with identifiers wins, cloid preferred over oid, resting preferred over
// filled. Returns "" when no entry carries an identifier.
func OrderRef(statuses []OrderStatus) string {
	for _, status := range statuses {
		if status.Resting != nil {
			if ref := status.Resting.ref(); ref != "" {
				return ref
			}
		}
		if status.Filled != nil {
			if ref := status.Filled.ref(); ref != "" {
				return ref
			}
		}
	}
	return ""
}

func (ids OrderIDs) ref() string {
	if ids.Cloid != "" {
		return ids.Cloid
	}
	return ids.OID
}

func stringFromAny(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatInt(int64(val), 10)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
