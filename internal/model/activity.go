package model

import (
	"strings"
	"time"
)

// TimeLayout is the wire and storage format for every timestamp in the
// API: dates are stored as UTC DATETIME columns and serialized as
// "YYYY-MM-DD HH:MM:SS" strings.
const TimeLayout = "2006-01-02 15:04:05"

// Recognized activity types. The column is an ENUM so the database
// rejects anything else, but validation happens before we get there.
const (
	TypeKayak  = "kayak"
	TypePaddle = "paddle"
	TypeCanoe  = "canoe"
	TypeCruise = "cruise"
)

// ValidActivityType reports whether s is one of the fixed activity types.
func ValidActivityType(s string) bool {
	switch s {
	case TypeKayak, TypePaddle, TypeCanoe, TypeCruise:
		return true
	}
	return false
}

// Activity mirrors the `activities` table. AvailableSlots is a template
// of bookable start times (TimeLayout strings, stored as a JSON array);
// RemainingSpots is a single capacity pool shared across all slots of
// the activity, not a per-slot count. That pooled model is intentional:
// every slot of an activity draws from the same stock of spots.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name.
//  Description    – free-form description.
//  ActivityType   – one of kayak, paddle, canoe, cruise.
//  Location       – where the activity takes place.
//  Price          – price per spot, non-negative.
//  AvailableSlots – offered start times in TimeLayout format.
//  RemainingSpots – bookable units left across all slots; never negative.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – refreshed on every mutation.
type Activity struct {
	ID             uint64    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	ActivityType   string    `json:"activityType"`
	Location       string    `json:"location"`
	Price          float64   `json:"price"`
	AvailableSlots []string  `json:"availableSlots"`
	RemainingSpots uint32    `json:"remainingSpots"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

// HasSlot reports whether t exactly matches one of the activity's
// offered start times. Matching is by instant, not by string, so a slot
// stored as "2025-08-01 10:00:00" matches a request for the same moment
// regardless of how the client formatted it. Unparseable entries in the
// slot list are skipped.
func (a *Activity) HasSlot(t time.Time) bool {
	for _, s := range a.AvailableSlots {
		st, err := time.Parse(TimeLayout, strings.TrimSpace(s))
		if err != nil {
			continue
		}
		if st.Equal(t) {
			return true
		}
	}
	return false
}
