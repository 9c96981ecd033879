package entities

// AvailabilityResult is the outcome of a slot check. A negative result is a
// normal business outcome, not an error: Reason carries the human-readable
// explanation and is empty when the slot is available.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}
