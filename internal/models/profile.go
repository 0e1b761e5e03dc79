// Package models содержит модель медицинского профиля пациента.
// Профиль связан с пользователем отношением один к одному и создается
// в одной транзакции с ним при регистрации.
package models

import "time"

// EmergencyContact контакт для экстренной связи, хранится в profiles как jsonb.
type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

// Profile представляет медицинский профиль пациента.
type Profile struct {
	UUID               string           `json:"id"`
	UserUID            string           `json:"user_id"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	DateOfBirth        time.Time        `json:"date_of_birth"`
	Gender             string           `json:"gender"`
	Height             float64          `json:"height"` // рост в сантиметрах
	Weight             float64          `json:"weight"` // вес в килограммах
	BloodType          string           `json:"blood_type"`
	MedicalConditions  []string         `json:"medical_conditions"`
	Allergies          []string         `json:"allergies"`
	CurrentMedications []string         `json:"current_medications"`
	EmergencyContact   EmergencyContact `json:"emergency_contact"`
	CreatedAt          time.Time        `json:"created_at"`
}
