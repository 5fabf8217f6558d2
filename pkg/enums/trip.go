package enums

import "fmt"

// TripStatus tracks a trip's lifecycle.
type TripStatus string

const (
	TripStatusActive    TripStatus = "active"
	TripStatusCompleted TripStatus = "completed"
)

var validTripStatuses = []TripStatus{
	TripStatusActive,
	TripStatusCompleted,
}

// String implements fmt.Stringer.
func (s TripStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a recognized trip status.
func (s TripStatus) IsValid() bool {
	for _, candidate := range validTripStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTripStatus converts raw input into a TripStatus.
func ParseTripStatus(value string) (TripStatus, error) {
	for _, candidate := range validTripStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip status %q", value)
}

// TripVisibility controls whether a trip is readable by other users.
type TripVisibility string

const (
	TripVisibilityPrivate TripVisibility = "private"
	TripVisibilityPublic  TripVisibility = "public"
)

var validTripVisibilities = []TripVisibility{
	TripVisibilityPrivate,
	TripVisibilityPublic,
}

// String implements fmt.Stringer.
func (v TripVisibility) String() string {
	return string(v)
}

// IsValid reports whether the value is a recognized visibility.
func (v TripVisibility) IsValid() bool {
	for _, candidate := range validTripVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTripVisibility converts raw input into a TripVisibility.
func ParseTripVisibility(value string) (TripVisibility, error) {
	for _, candidate := range validTripVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid trip visibility %q", value)
}
