package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a meeting between the demo patient and a midwife.
type Appointment struct {
	ID            string            `json:"id"`
	MidwifeID     string            `json:"midwifeId"`
	MidwifeName   string            `json:"midwifeName"`
	MidwifeAvatar string            `json:"midwifeAvatar,omitempty"`
	Date          string            `json:"date"`
	Time          string            `json:"time"`
	Type          string            `json:"type"`
	Location      string            `json:"location"`
	IsOnline      bool              `json:"isOnline"`
	Status        AppointmentStatus `json:"status"`
	MeetingLink   string            `json:"meetingLink,omitempty"`
	Notes         string            `json:"notes,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// AppointmentPatch lists the fields an update may change. Nil fields are left alone.
type AppointmentPatch struct {
	Date        *string            `json:"date,omitempty"`
	Time        *string            `json:"time,omitempty"`
	Type        *string            `json:"type,omitempty"`
	Location    *string            `json:"location,omitempty"`
	IsOnline    *bool              `json:"isOnline,omitempty"`
	Status      *AppointmentStatus `json:"status,omitempty" binding:"omitempty,oneof=scheduled completed cancelled"`
	MeetingLink *string            `json:"meetingLink,omitempty"`
	Notes       *string            `json:"notes,omitempty"`
}

// Apply copies the set fields of p onto a.
func (p AppointmentPatch) Apply(a *Appointment) {
	if p.Date != nil {
		a.Date = *p.Date
	}
	if p.Time != nil {
		a.Time = *p.Time
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Location != nil {
		a.Location = *p.Location
	}
	if p.IsOnline != nil {
		a.IsOnline = *p.IsOnline
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.MeetingLink != nil {
		a.MeetingLink = *p.MeetingLink
	}
	if p.Notes != nil {
		a.Notes = *p.Notes
	}
}

// BookingRequest is what the booking calendar submits on confirm.
type BookingRequest struct {
	MidwifeID     string `json:"midwifeId" binding:"required"`
	MidwifeName   string `json:"midwifeName" binding:"required"`
	MidwifeAvatar string `json:"midwifeAvatar"`
	Date          string `json:"date" binding:"required"`
	Time          string `json:"time" binding:"required"`
	Type          string `json:"type" binding:"required"`
	Location      string `json:"location"`
	IsOnline      bool   `json:"isOnline"`
	Notes         string `json:"notes"`
}
