package wire

import (
	"fmt"
	"time"

	"ambulance/internal/domain"
)

// Contact is the wire form of an emergency contact.
type Contact struct {
	MongoID      string     `json:"_id,omitempty"`
	ID           string     `json:"id,omitempty"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	Relationship string     `json:"relationship"`
	Notes        string     `json:"notes,omitempty"`
	IsPrimary    bool       `json:"isPrimary"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
}

// FromContact converts a domain contact.
func FromContact(c *domain.EmergencyContact) Contact {
	return Contact{
		MongoID:      c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Relationship: string(c.Relationship),
		Notes:        c.Notes,
		IsPrimary:    c.IsPrimary,
		CreatedAt:    timePtr(c.CreatedAt),
	}
}

// FromContacts converts a list. The result is never nil.
func FromContacts(contacts []*domain.EmergencyContact) []Contact {
	out := make([]Contact, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, FromContact(c))
	}
	return out
}

// ToDomain converts and normalizes a wire contact.
func (c Contact) ToDomain() (domain.EmergencyContact, error) {
	id := firstNonEmpty(c.MongoID, c.ID)
	if id == "" {
		return domain.EmergencyContact{}, ErrMissingID
	}
	rel, ok := domain.ParseRelationship(c.Relationship)
	if !ok {
		rel = domain.RelationshipOther
	}
	out := domain.EmergencyContact{
		ID:           id,
		Name:         c.Name,
		Phone:        c.Phone,
		Relationship: rel,
		Notes:        c.Notes,
		IsPrimary:    c.IsPrimary,
	}
	if c.CreatedAt != nil {
		out.CreatedAt = *c.CreatedAt
	}
	return out, nil
}

// ToDomainContacts converts a list.
func ToDomainContacts(in []Contact) ([]domain.EmergencyContact, error) {
	out := make([]domain.EmergencyContact, 0, len(in))
	for i, c := range in {
		d, err := c.ToDomain()
		if err != nil {
			return nil, fmt.Errorf("contact %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
