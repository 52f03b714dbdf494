package models

import (
	"time"
)

// Role tags the demo user.
type Role string

const (
	RolePatient Role = "patient"
	RoleMidwife Role = "midwife"
	RoleGuest   Role = "guest"
)

// UserProfile is the single demo user stored per deployment.
type UserProfile struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName" binding:"required"`
	LastName    string       `json:"lastName" binding:"required"`
	Email       string       `json:"email" binding:"required,email"`
	Phone       string       `json:"phone,omitempty"`
	Address     *Address     `json:"address,omitempty"`
	Pregnancy   *Pregnancy   `json:"pregnancy,omitempty"`
	MedicalInfo *MedicalInfo `json:"medicalInfo,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
	Role        Role         `json:"role" binding:"required,oneof=patient midwife guest"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// Address is the optional postal address of the user.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Pregnancy holds the pregnancy details of a patient.
type Pregnancy struct {
	DueDate          string   `json:"dueDate"`
	Week             int      `json:"week"`
	IsFirstPregnancy bool     `json:"isFirstPregnancy"`
	Complications    []string `json:"complications,omitempty"`
}

// MedicalInfo holds the medical background of a patient.
type MedicalInfo struct {
	BloodType   string   `json:"bloodType,omitempty"`
	Allergies   []string `json:"allergies,omitempty"`
	Medications []string `json:"medications,omitempty"`
	Conditions  []string `json:"conditions,omitempty"`
}

// Preferences are notification and language flags.
type Preferences struct {
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
	Language           string `json:"language"`
}

// FullName joins first and last name.
func (p *UserProfile) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
