package domain

import (
	"strings"
	"time"
)

type OfficerRole string

const (
	OfficerRoleOfficer    OfficerRole = "officer"
	OfficerRoleSupervisor OfficerRole = "supervisor"
	OfficerRoleAdmin      OfficerRole = "admin"
)

// Officer is the authenticated account of a field officer.
type Officer struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	Email       string      `json:"email" gorm:"uniqueIndex"`
	Password    string      `json:"-"`
	Role        OfficerRole `json:"role"`
	Status      string      `json:"status"`
	Rank        string      `json:"rank"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Codename    string      `json:"codename"`
	BadgeNumber string      `json:"badgeNumber"`
	Department  string      `json:"department"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Profile returns the display-name fields the assistant reads.
func (o *Officer) Profile() OfficerProfile {
	return OfficerProfile{
		Rank:        o.Rank,
		FirstName:   o.FirstName,
		LastName:    o.LastName,
		Codename:    o.Codename,
		BadgeNumber: o.BadgeNumber,
		Department:  o.Department,
	}
}

// OfficerProfile is the subset of officer identity used for addressing the
// officer in spoken and written responses.
type OfficerProfile struct {
	Rank        string `json:"rank"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Codename    string `json:"codename"`
	BadgeNumber string `json:"badgeNumber"`
	Department  string `json:"department"`
}

// DisplayName resolves how the assistant addresses the officer: codename
// first, then rank + last name, then full name, then a generic fallback.
func (p OfficerProfile) DisplayName() string {
	if name := strings.TrimSpace(p.Codename); name != "" {
		return name
	}
	if p.Rank != "" && p.LastName != "" {
		return p.Rank + " " + p.LastName
	}
	if p.FirstName != "" && p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return "Officer"
}
