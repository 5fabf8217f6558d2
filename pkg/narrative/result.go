package narrative

import "github.com/shopspring/decimal"

// Result is the structured bundle returned by the generation service for one
// transcript increment. Pointer fields distinguish "absent" from "zero": an
// omitted field never overwrites existing state downstream.
type Result struct {
	Sections  []GeneratedSection `json:"sections"`
	Summary   string             `json:"summary"`
	Logistics *LogisticsPatch    `json:"logistics,omitempty"`
	Food      *FoodPatch         `json:"food_logistics,omitempty"`
	Title     string             `json:"suggested_title,omitempty"`
	Location  string             `json:"suggested_location,omitempty"`
}

// GeneratedSection is one bilingual paragraph pair covering a single topic,
// in the order the service returned it.
type GeneratedSection struct {
	English string `json:"english"`
	Hindi   string `json:"hindi"`
	Topic   string `json:"topic"`
}

// LogisticsPatch carries per-field lodging/transport updates.
type LogisticsPatch struct {
	HotelName     *string          `json:"hotel_name,omitempty"`
	HotelCost     *decimal.Decimal `json:"hotel_cost,omitempty"`
	TransportMode *string          `json:"transport_mode,omitempty"`
	TransportCost *decimal.Decimal `json:"transport_cost,omitempty"`
}

// MealPatch carries per-field updates for one meal.
type MealPatch struct {
	Name       *string          `json:"name,omitempty"`
	Cost       *decimal.Decimal `json:"cost,omitempty"`
	Restaurant *string          `json:"restaurant,omitempty"`
}

// FoodPatch carries per-meal updates.
type FoodPatch struct {
	Breakfast *MealPatch `json:"breakfast,omitempty"`
	Lunch     *MealPatch `json:"lunch,omitempty"`
	Dinner    *MealPatch `json:"dinner,omitempty"`
}
