package models

import (
	"fmt"
	"strings"
	"time"
)

// Collection keys. Each key is also the notification topic for that collection.
const (
	CollectionProfile       = "profile"
	CollectionAppointments  = "appointments"
	CollectionConversations = "conversations"
	CollectionMessages      = "messages"
	CollectionSymptoms      = "symptoms"
)

const availabilityPrefix = "availability:"

// AvailabilityCollection returns the key holding one midwife's slots.
func AvailabilityCollection(midwifeID string) string {
	return availabilityPrefix + midwifeID
}

// IsTopic reports whether topic names a collection that publishes changes.
func IsTopic(topic string) bool {
	switch topic {
	case CollectionProfile, CollectionAppointments, CollectionConversations, CollectionMessages, CollectionSymptoms:
		return true
	}
	return strings.HasPrefix(topic, availabilityPrefix) && len(topic) > len(availabilityPrefix)
}

// Calendar layouts used on the wire and in storage.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// DemoPatientID identifies the single demo patient.
const DemoPatientID = "patient-demo"

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) error {
	if len(s) != len(TimeLayout) {
		return fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return fmt.Errorf("invalid time %q: %w", s, err)
	}
	return nil
}

// FormatDate renders t as a calendar day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// MondayIndex maps Go's Sunday-first weekday to a Monday-first 0 index.
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
