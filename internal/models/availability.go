package models

// AvailabilitySlot is one bookable (date, time) unit of a midwife.
type AvailabilitySlot struct {
	ID              string `json:"id"`
	MidwifeID       string `json:"midwifeId"`
	Date            string `json:"date" binding:"required"`
	Time            string `json:"time" binding:"required"`
	IsAvailable     bool   `json:"isAvailable"`
	MaxBookings     int    `json:"maxBookings" binding:"gte=0"`
	CurrentBookings int    `json:"currentBookings" binding:"gte=0"`
}

// SlotID derives the slot identifier from its date and time.
func SlotID(date, clock string) string {
	return date + "-" + clock
}

// SlotPatch lists the fields a slot update may change.
type SlotPatch struct {
	IsAvailable     *bool `json:"isAvailable,omitempty"`
	MaxBookings     *int  `json:"maxBookings,omitempty" binding:"omitempty,gte=0"`
	CurrentBookings *int  `json:"currentBookings,omitempty" binding:"omitempty,gte=0"`
}

// Apply copies the set fields of p onto s.
func (p SlotPatch) Apply(s *AvailabilitySlot) {
	if p.IsAvailable != nil {
		s.IsAvailable = *p.IsAvailable
	}
	if p.MaxBookings != nil {
		s.MaxBookings = *p.MaxBookings
	}
	if p.CurrentBookings != nil {
		s.CurrentBookings = *p.CurrentBookings
	}
}

// MultiDayRequest expands into the cross product of matching days and times.
// Weekdays are Monday-first: 0 is Monday, 6 is Sunday.
type MultiDayRequest struct {
	StartDate   string   `json:"startDate" binding:"required"`
	EndDate     string   `json:"endDate" binding:"required"`
	Weekdays    []int    `json:"selectedWeekdays"`
	TimeSlots   []string `json:"timeSlots"`
	IsAvailable bool     `json:"isAvailable"`
	MaxBookings int      `json:"maxBookings"`
}
