package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"ambulance/internal/domain"
	"ambulance/internal/wire"
)

// ListContacts fetches the caller's emergency contacts.
func (c *Client) ListContacts(ctx context.Context) ([]domain.EmergencyContact, error) {
	var out []wire.Contact
	if err := c.do(ctx, http.MethodGet, "/api/emergency-contacts", nil, &out); err != nil {
		return nil, err
	}
	return decodeContacts(out)
}

// CreateContact adds a contact.
func (c *Client) CreateContact(ctx context.Context, req wire.ContactRequest) (*domain.EmergencyContact, error) {
	var out wire.Contact
	if err := c.do(ctx, http.MethodPost, "/api/emergency-contacts", req, &out); err != nil {
		return nil, err
	}
	return decodeContact(out)
}

// UpdateContact replaces a contact's fields.
func (c *Client) UpdateContact(ctx context.Context, id string, req wire.ContactRequest) (*domain.EmergencyContact, error) {
	var out wire.Contact
	if err := c.do(ctx, http.MethodPut, "/api/emergency-contacts/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return decodeContact(out)
}

// DeleteContact removes a contact.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/emergency-contacts/"+url.PathEscape(id), nil, nil)
}

// SetPrimaryContact makes id the single primary contact and returns the updated collection.
func (c *Client) SetPrimaryContact(ctx context.Context, id string) ([]domain.EmergencyContact, error) {
	var out []wire.Contact
	if err := c.do(ctx, http.MethodPut, "/api/emergency-contacts/primary/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return decodeContacts(out)
}

func decodeContacts(in []wire.Contact) ([]domain.EmergencyContact, error) {
	contacts, err := wire.ToDomainContacts(in)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return contacts, nil
}

func decodeContact(in wire.Contact) (*domain.EmergencyContact, error) {
	contact, err := in.ToDomain()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &contact, nil
}
