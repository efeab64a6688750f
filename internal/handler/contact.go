package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ambulance/internal/service"
	"ambulance/internal/validation"
	"ambulance/internal/wire"
)

// ContactHandler handles HTTP requests for emergency contacts.
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// List handles GET /api/emergency-contacts
func (h *ContactHandler) List(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.List(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromContacts(contacts))
}

// Create handles POST /api/emergency-contacts
func (h *ContactHandler) Create(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), identity.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusCreated, wire.FromContact(contact))
}

// Update handles PUT /api/emergency-contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}
	req, ok := bindContact(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), identity.ID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromContact(contact))
}

// Delete handles DELETE /api/emergency-contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), identity.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetPrimary handles PUT /api/emergency-contacts/primary/:id
func (h *ContactHandler) SetPrimary(c *gin.Context) {
	identity, ok := caller(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.SetPrimary(c.Request.Context(), identity.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, wire.FromContacts(contacts))
}

func bindContact(c *gin.Context) (service.ContactRequest, bool) {
	var req wire.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return service.ContactRequest{}, false
	}
	req = validation.NormalizeContact(req)
	if err := validation.Struct(req); err != nil {
		respondError(c, err)
		return service.ContactRequest{}, false
	}
	return service.ContactRequest{
		Name:         req.Name,
		Phone:        req.Phone,
		Relationship: req.Relationship,
		Notes:        req.Notes,
		IsPrimary:    req.IsPrimary,
	}, true
}
