package enums

import "fmt"

// HireStatus maps to the hire_status enum in Postgres.
type HireStatus string

const (
	HireStatusPending   HireStatus = "pending"
	HireStatusAccepted  HireStatus = "accepted"
	HireStatusRejected  HireStatus = "rejected"
	HireStatusCompleted HireStatus = "completed"
)

var validHireStatuses = []HireStatus{
	HireStatusPending,
	HireStatusAccepted,
	HireStatusRejected,
	HireStatusCompleted,
}

// String implements fmt.Stringer.
func (h HireStatus) String() string {
	return string(h)
}

// IsValid reports whether the value matches the canonical hire_status enum.
func (h HireStatus) IsValid() bool {
	for _, candidate := range validHireStatuses {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHireStatus converts raw input into HireStatus.
func ParseHireStatus(value string) (HireStatus, error) {
	for _, candidate := range validHireStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid hire status %q", value)
}
