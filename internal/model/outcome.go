package model

// Outcome is the semantic result of a key-value operation before it is
// mapped to an HTTP status.
type Outcome int

const (
	// Invalid means the input was rejected before reaching the backend.
	Invalid Outcome = iota
	// Created is a set on a key that held no value.
	Created
	// Updated is a set that replaced a different value.
	Updated
	// Unchanged is a set that wrote the value the key already held.
	Unchanged
	// Found is a get that returned a value.
	Found
	// NotFound is a get on a key that holds no value.
	NotFound
)

var outcomeNames = map[Outcome]string{
	Invalid:   "invalid",
	Created:   "created",
	Updated:   "updated",
	Unchanged: "unchanged",
	Found:     "found",
	NotFound:  "not found",
}

// String returns the lowercase action name used in response messages.
func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}
