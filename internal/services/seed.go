package services

import (
	"time"

	"midwife-booking-server/internal/models"
)

// Midwife is a directory entry of the demo.
type Midwife struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// DemoMidwives are the midwives the seed data refers to.
var DemoMidwives = []Midwife{
	{ID: "midwife-1", Name: "Anna Kowalska", Avatar: "/avatars/anna-kowalska.jpg"},
	{ID: "midwife-2", Name: "Maria Nowak", Avatar: "/avatars/maria-nowak.jpg"},
	{ID: "midwife-3", Name: "Katarzyna Wiśniewska", Avatar: "/avatars/katarzyna-wisniewska.jpg"},
}

// FindDemoMidwife looks a demo midwife up by id.
func FindDemoMidwife(id string) (Midwife, bool) {
	for _, m := range DemoMidwives {
		if m.ID == id {
			return m, true
		}
	}
	return Midwife{}, false
}

func day(now time.Time, offset int) string {
	return models.FormatDate(now.AddDate(0, 0, offset))
}

func seedProfile(now time.Time) models.UserProfile {
	return models.UserProfile{
		ID:        models.DemoPatientID,
		FirstName: "Joanna",
		LastName:  "Zielińska",
		Email:     "joanna.zielinska@example.com",
		Phone:     "+48 600 100 200",
		Address: &models.Address{
			Street:     "ul. Kwiatowa 12",
			City:       "Warszawa",
			PostalCode: "00-001",
			Country:    "PL",
		},
		Pregnancy: &models.Pregnancy{
			DueDate:          day(now, 120),
			Week:             23,
			IsFirstPregnancy: true,
		},
		MedicalInfo: &models.MedicalInfo{
			BloodType: "A+",
			Allergies: []string{"penicillin"},
		},
		Preferences: &models.Preferences{
			EmailNotifications: true,
			Language:           "pl",
		},
		Role:      models.RolePatient,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func seedAppointments(now time.Time) []models.Appointment {
	m1, m2 := DemoMidwives[0], DemoMidwives[1]
	return []models.Appointment{
		{
			ID: "appointment-seed-1", MidwifeID: m1.ID, MidwifeName: m1.Name, MidwifeAvatar: m1.Avatar,
			Date: day(now, 3), Time: "10:00", Type: "Prenatal check-up", Location: "Warszawa, ul. Zdrowa 5",
			Status: models.StatusScheduled, CreatedAt: now,
		},
		{
			ID: "appointment-seed-2", MidwifeID: m2.ID, MidwifeName: m2.Name, MidwifeAvatar: m2.Avatar,
			Date: day(now, 10), Time: "14:30", Type: "Breastfeeding consultation", Location: "Online",
			IsOnline: true, Status: models.StatusScheduled, MeetingLink: "https://meet.example.com/appointment-seed-2",
			CreatedAt: now,
		},
		{
			ID: "appointment-seed-3", MidwifeID: m1.ID, MidwifeName: m1.Name, MidwifeAvatar: m1.Avatar,
			Date: day(now, -14), Time: "09:00", Type: "First visit", Location: "Warszawa, ul. Zdrowa 5",
			Status: models.StatusCompleted, Notes: "All results normal.", CreatedAt: now.AddDate(0, 0, -20),
		},
	}
}

func seedConversations(now time.Time) ([]models.Conversation, []models.Message) {
	m1, m2 := DemoMidwives[0], DemoMidwives[1]
	messages := []models.Message{
		{
			ID: "message-seed-1", ConversationID: "conversation-seed-1", SenderID: models.DemoPatientID,
			SenderName: "Joanna Zielińska", Content: "Good morning, can I take magnesium before our visit?",
			Timestamp: now.Add(-26 * time.Hour), Type: models.MessageTypeText, IsRead: true,
		},
		{
			ID: "message-seed-2", ConversationID: "conversation-seed-1", SenderID: m1.ID, SenderName: m1.Name,
			SenderAvatar: m1.Avatar, Content: "Yes, that is fine. Bring your latest results on Thursday.",
			Timestamp: now.Add(-25 * time.Hour), Type: models.MessageTypeText,
		},
		{
			ID: "message-seed-3", ConversationID: "conversation-seed-2", SenderID: m2.ID, SenderName: m2.Name,
			SenderAvatar: m2.Avatar, Content: "I attached the breastfeeding guide we talked about.",
			Timestamp: now.Add(-3 * time.Hour), Type: models.MessageTypeFile,
			Attachments: []models.Attachment{{
				ID: "attachment-seed-1", Name: "breastfeeding-guide.pdf", URL: "/files/breastfeeding-guide.pdf",
				Size: 482133, MimeType: "application/pdf",
			}},
		},
	}
	conversations := []models.Conversation{
		{
			ID: "conversation-seed-1", MidwifeID: m1.ID, MidwifeName: m1.Name, MidwifeAvatar: m1.Avatar,
			LastMessage: &messages[1], UnreadCount: 1, UpdatedAt: messages[1].Timestamp,
		},
		{
			ID: "conversation-seed-2", MidwifeID: m2.ID, MidwifeName: m2.Name, MidwifeAvatar: m2.Avatar,
			LastMessage: &messages[2], UnreadCount: 1, UpdatedAt: messages[2].Timestamp,
		},
	}
	return conversations, messages
}

func seedSymptoms(now time.Time) []models.SymptomEntry {
	weight := 64.5
	return []models.SymptomEntry{
		{
			ID: "symptom-seed-1", Date: day(now, -2),
			Symptoms: models.Symptoms{
				Mood: models.MoodGood, Energy: models.LevelMedium, Nausea: models.SeverityMild,
				Appetite: models.AppetiteNormal, Sleep: models.SleepFair, Pain: models.SeverityNone,
				Weight: &weight, BloodPressure: "118/76",
			},
			Notes: "Slight nausea in the morning.", CreatedAt: now.AddDate(0, 0, -2),
		},
		{
			ID: "symptom-seed-2", Date: day(now, -1),
			Symptoms: models.Symptoms{
				Mood: models.MoodGreat, Energy: models.LevelHigh, Nausea: models.SeverityNone,
				Appetite: models.AppetiteIncreased, Sleep: models.SleepGood, Pain: models.SeverityNone,
			},
			CreatedAt: now.AddDate(0, 0, -1),
		},
	}
}

var seedSlotTimes = []string{"09:00", "10:00", "11:00", "13:00", "14:00"}

// seedAvailability opens weekday slots for the next two weeks of a demo midwife.
func seedAvailability(now time.Time, midwifeID string) []models.AvailabilitySlot {
	if _, ok := FindDemoMidwife(midwifeID); !ok {
		return []models.AvailabilitySlot{}
	}
	var slots []models.AvailabilitySlot
	for offset := 1; offset <= 14; offset++ {
		d := now.AddDate(0, 0, offset)
		if models.MondayIndex(d.Weekday()) > 4 {
			continue
		}
		date := models.FormatDate(d)
		for _, clock := range seedSlotTimes {
			slots = append(slots, models.AvailabilitySlot{
				ID: models.SlotID(date, clock), MidwifeID: midwifeID, Date: date, Time: clock,
				IsAvailable: true, MaxBookings: 1,
			})
		}
	}
	return slots
}
