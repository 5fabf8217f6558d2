package enums

import "fmt"

// MealSlot names one of the three tracked meals of a day.
type MealSlot string

const (
	MealSlotBreakfast MealSlot = "breakfast"
	MealSlotLunch     MealSlot = "lunch"
	MealSlotDinner    MealSlot = "dinner"
)

var validMealSlots = []MealSlot{
	MealSlotBreakfast,
	MealSlotLunch,
	MealSlotDinner,
}

// String implements fmt.Stringer.
func (m MealSlot) String() string {
	return string(m)
}

// IsValid reports whether the value is a recognized meal slot.
func (m MealSlot) IsValid() bool {
	for _, candidate := range validMealSlots {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseMealSlot converts raw input into a MealSlot.
func ParseMealSlot(value string) (MealSlot, error) {
	for _, candidate := range validMealSlots {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid meal slot %q", value)
}
