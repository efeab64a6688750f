package domain

import "time"

// Relationship describes how an emergency contact relates to its owner.
type Relationship string

const (
	RelationshipFamily    Relationship = "family"
	RelationshipFriend    Relationship = "friend"
	RelationshipDoctor    Relationship = "doctor"
	RelationshipHospital  Relationship = "hospital"
	RelationshipColleague Relationship = "colleague"
	RelationshipOther     Relationship = "other"
)

// ParseRelationship converts a raw relationship string.
func ParseRelationship(s string) (Relationship, bool) {
	switch r := Relationship(s); r {
	case RelationshipFamily, RelationshipFriend, RelationshipDoctor,
		RelationshipHospital, RelationshipColleague, RelationshipOther:
		return r, true
	default:
		return "", false
	}
}

// EmergencyContact is a person to notify during an emergency.
type EmergencyContact struct {
	ID           string
	OwnerID      string
	Name         string
	Phone        string
	Relationship Relationship
	Notes        string
	IsPrimary    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MarkPrimary sets isPrimary on the contact with primaryID and clears it everywhere else.
func MarkPrimary(contacts []EmergencyContact, primaryID string) {
	for i := range contacts {
		contacts[i].IsPrimary = contacts[i].ID == primaryID
	}
}
