package enums

import "fmt"

// CompensationType maps to the compensation_type enum in Postgres.
type CompensationType string

const (
	CompensationTypeFixed      CompensationType = "fixed"
	CompensationTypeHourly     CompensationType = "hourly"
	CompensationTypeNegotiable CompensationType = "negotiable"
)

var validCompensationTypes = []CompensationType{
	CompensationTypeFixed,
	CompensationTypeHourly,
	CompensationTypeNegotiable,
}

// String implements fmt.Stringer.
func (c CompensationType) String() string {
	return string(c)
}

// IsValid reports whether the value matches the canonical compensation_type enum.
func (c CompensationType) IsValid() bool {
	for _, candidate := range validCompensationTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCompensationType converts raw input into CompensationType.
func ParseCompensationType(value string) (CompensationType, error) {
	for _, candidate := range validCompensationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid compensation type %q", value)
}

// RequirementStatus maps to the requirement_status enum in Postgres.
type RequirementStatus string

const (
	RequirementStatusActive RequirementStatus = "active"
	RequirementStatusClosed RequirementStatus = "closed"
	RequirementStatusPaused RequirementStatus = "paused"
)

var validRequirementStatuses = []RequirementStatus{
	RequirementStatusActive,
	RequirementStatusClosed,
	RequirementStatusPaused,
}

// String implements fmt.Stringer.
func (r RequirementStatus) String() string {
	return string(r)
}

// IsValid reports whether the value matches the canonical requirement_status enum.
func (r RequirementStatus) IsValid() bool {
	for _, candidate := range validRequirementStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRequirementStatus converts raw input into RequirementStatus.
func ParseRequirementStatus(value string) (RequirementStatus, error) {
	for _, candidate := range validRequirementStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid requirement status %q", value)
}
