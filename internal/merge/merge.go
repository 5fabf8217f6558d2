package merge

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ananyakrishnan/safarnama-backend/pkg/narrative"
	"github.com/ananyakrishnan/safarnama-backend/pkg/types"
)

// ApplyDictation folds one generated result into a day's state and returns the
// next state. The input day is never mutated. An empty-after-trim transcript
// returns the day unchanged: callers short-circuit before the external calls,
// and the engine itself never errors.
//
// Sections are appended in the order the service returned them, each with a
// fresh identifier and no image. The raw transcript grows by the increment,
// space-joined, and is never truncated. Summary, logistics, and food logistics
// follow fallback-on-empty semantics: an omitted or empty field keeps the
// prior value, never blanks it.
func ApplyDictation(day types.Day, transcript string, res *narrative.Result) types.Day {
	increment := strings.TrimSpace(transcript)
	if increment == "" {
		return day
	}

	next := day
	next.Sections = make([]types.Section, len(day.Sections), len(day.Sections)+sectionCount(res))
	copy(next.Sections, day.Sections)

	if day.RawTranscript == "" {
		next.RawTranscript = increment
	} else {
		next.RawTranscript = day.RawTranscript + " " + increment
	}

	if res == nil {
		return next
	}

	for _, gen := range res.Sections {
		next.Sections = append(next.Sections, types.Section{
			ID:      uuid.New(),
			English: gen.English,
			Hindi:   gen.Hindi,
			Topic:   gen.Topic,
		})
	}

	if strings.TrimSpace(res.Summary) != "" {
		next.Summary = res.Summary
	}

	next.Logistics = mergeLogistics(day.Logistics, res.Logistics)
	next.FoodLogistics = mergeFood(day.FoodLogistics, res.Food)

	return next
}

// TripMeta is the trip-level slice of state the merge can touch.
type TripMeta struct {
	Title               string
	TitlePlaceholder    bool
	Location            string
	LocationPlaceholder bool
}

// ApplySuggestions applies the result's title/location suggestions. A
// suggestion lands only while the matching placeholder flag is still set;
// applying it clears the flag, so later suggestions become no-ops and user
// edits are never clobbered.
func ApplySuggestions(meta TripMeta, res *narrative.Result) TripMeta {
	if res == nil {
		return meta
	}

	next := meta
	if next.TitlePlaceholder {
		if title := strings.TrimSpace(res.Title); title != "" {
			next.Title = title
			next.TitlePlaceholder = false
		}
	}
	if next.LocationPlaceholder {
		if location := strings.TrimSpace(res.Location); location != "" {
			next.Location = location
			next.LocationPlaceholder = false
		}
	}
	return next
}

func sectionCount(res *narrative.Result) int {
	if res == nil {
		return 0
	}
	return len(res.Sections)
}

// mergeLogistics is a per-field merge, never a whole-object replace: a patch
// that only supplies hotel_cost must not blank out hotel_name.
func mergeLogistics(cur types.Logistics, patch *narrative.LogisticsPatch) types.Logistics {
	if patch == nil {
		return cur
	}
	next := cur
	if patch.HotelName != nil && strings.TrimSpace(*patch.HotelName) != "" {
		next.HotelName = *patch.HotelName
	}
	if patch.HotelCost != nil && !patch.HotelCost.IsNegative() {
		next.HotelCost = *patch.HotelCost
	}
	if patch.TransportMode != nil && strings.TrimSpace(*patch.TransportMode) != "" {
		next.TransportMode = *patch.TransportMode
	}
	if patch.TransportCost != nil && !patch.TransportCost.IsNegative() {
		next.TransportCost = *patch.TransportCost
	}
	return next
}

func mergeFood(cur types.FoodLogistics, patch *narrative.FoodPatch) types.FoodLogistics {
	if patch == nil {
		return cur
	}
	next := cur
	next.Breakfast = mergeMeal(cur.Breakfast, patch.Breakfast)
	next.Lunch = mergeMeal(cur.Lunch, patch.Lunch)
	next.Dinner = mergeMeal(cur.Dinner, patch.Dinner)
	return next
}

func mergeMeal(cur types.MealInfo, patch *narrative.MealPatch) types.MealInfo {
	if patch == nil {
		return cur
	}
	next := cur
	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		next.Name = *patch.Name
	}
	if patch.Cost != nil && !patch.Cost.IsNegative() {
		next.Cost = *patch.Cost
	}
	if patch.Restaurant != nil && strings.TrimSpace(*patch.Restaurant) != "" {
		next.Restaurant = *patch.Restaurant
	}
	return next
}
