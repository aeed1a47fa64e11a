package domain

import "time"

// Location is a last-known officer coordinate pair.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationUpdate is published to dispatch on subject dispatch.location.
type LocationUpdate struct {
	OfficerID string    `json:"officerId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// BackupRequest is published to dispatch on subject dispatch.backup.
type BackupRequest struct {
	OfficerID string    `json:"officerId"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Situation string    `json:"situation"`
	Timestamp time.Time `json:"timestamp"`
}
