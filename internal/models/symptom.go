package models

import (
	"time"
)

// Diary scales.
const (
	MoodGreat    = "great"
	MoodGood     = "good"
	MoodOkay     = "okay"
	MoodBad      = "bad"
	MoodTerrible = "terrible"

	LevelHigh   = "high"
	LevelMedium = "medium"
	LevelLow    = "low"

	SeverityNone     = "none"
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"

	AppetiteIncreased = "increased"
	AppetiteNormal    = "normal"
	AppetiteDecreased = "decreased"

	SleepGood = "good"
	SleepFair = "fair"
	SleepPoor = "poor"
)

// SymptomEntry is the diary record for one calendar day.
type SymptomEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date" binding:"required"`
	Symptoms  Symptoms  `json:"symptoms"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Symptoms are the scored observations of a diary day.
type Symptoms struct {
	Mood          string   `json:"mood" binding:"required,oneof=great good okay bad terrible"`
	Energy        string   `json:"energy" binding:"required,oneof=high medium low"`
	Nausea        string   `json:"nausea" binding:"required,oneof=none mild moderate severe"`
	Appetite      string   `json:"appetite" binding:"required,oneof=increased normal decreased"`
	Sleep         string   `json:"sleep" binding:"required,oneof=good fair poor"`
	Pain          string   `json:"pain" binding:"required,oneof=none mild moderate severe"`
	Weight        *float64 `json:"weight,omitempty" binding:"omitempty,gt=0"`
	BloodPressure string   `json:"bloodPressure,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty" binding:"omitempty,gt=30,lt=45"`
}
