package enums

import "fmt"

// ApplicationStatus maps to the application_status enum in Postgres.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

var validApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
}

// String implements fmt.Stringer.
func (a ApplicationStatus) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical application_status enum.
func (a ApplicationStatus) IsValid() bool {
	for _, candidate := range validApplicationStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseApplicationStatus converts raw input into ApplicationStatus.
func ParseApplicationStatus(value string) (ApplicationStatus, error) {
	for _, candidate := range validApplicationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid application status %q", value)
}
