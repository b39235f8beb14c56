package handler

import (
	"net/http"

	"cloudburst/internal/delivery/api/response"
	"cloudburst/internal/delivery/api/validator"
	"cloudburst/internal/domain/entity"
	"cloudburst/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// ContactHandlerParams holds dependencies for ContactHandler, injected by Fx.
type ContactHandlerParams struct {
	fx.In

	ContactUC usecase.ContactUsecase
}

// ContactHandler serves emergency contact management
type ContactHandler struct {
	contactUC usecase.ContactUsecase
}

// NewContactHandler is the constructor for ContactHandler
func NewContactHandler(params ContactHandlerParams) *ContactHandler {
	return &ContactHandler{contactUC: params.ContactUC}
}

// ContactRequest is the contact form used for create and update
type ContactRequest struct {
	Name                   string   `json:"name" validate:"required"`
	Phone                  string   `json:"phone" validate:"required"`
	Email                  string   `json:"email" validate:"omitempty,email"`
	AssociatedNodes        []string `json:"associatedNodes" validate:"required,min=1"`
	NotificationPreference string   `json:"notificationPreference" validate:"omitempty,oneof=sms email both"`
}

func (r *ContactRequest) input() *usecase.ContactInput {
	return &usecase.ContactInput{
		Name:                   r.Name,
		Phone:                  r.Phone,
		Email:                  r.Email,
		AssociatedNodes:        r.AssociatedNodes,
		NotificationPreference: entity.NotificationPreference(r.NotificationPreference),
	}
}

// CreateContact adds an emergency contact
func (h *ContactHandler) CreateContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid contact input", validator.FieldErrors(err))
	}

	contact, err := h.contactUC.Create(c.Request().Context(), req.input())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, contact)
}

// ListContacts returns contacts sorted by name
func (h *ContactHandler) ListContacts(c echo.Context) error {
	contacts, err := h.contactUC.List(c.Request().Context())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, contacts)
}

// UpdateContact replaces a contact's details
func (h *ContactHandler) UpdateContact(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequestWithDetails(c, "VALIDATION_ERROR", "Invalid contact input", validator.FieldErrors(err))
	}

	contact, err := h.contactUC.Update(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, contact)
}

// DeleteContact removes a contact
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	if err := h.contactUC.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Contact deleted successfully"})
}
