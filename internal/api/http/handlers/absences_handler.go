package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-service/internal/api/dto"
	"github.com/spec-kit/staff-service/internal/service"
)

// AbsencesHandler exposes absences and absence types.
type AbsencesHandler struct {
	absences *service.AbsenceService
}

// NewAbsencesHandler constructs handler.
func NewAbsencesHandler(absences *service.AbsenceService) *AbsencesHandler {
	return &AbsencesHandler{absences: absences}
}

// List handles GET /absences.
func (h *AbsencesHandler) List(c *fiber.Ctx) error {
	args, err := connectionArgs(c)
	if err != nil {
		return err
	}
	conn, err := h.absences.Absences(c.UserContext(), service.AbsencesQuery{
		ID:            optionalQuery(c, "id"),
		UserID:        optionalQuery(c, "userId"),
		AbsenceTypeID: optionalQuery(c, "absenceTypeId"),
		Args:          args,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConnection(conn, dto.NewAbsenceResponse))
}

// Create handles POST /absences.
func (h *AbsencesHandler) Create(c *fiber.Ctx) error {
	var in service.AbsenceInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	absence, err := h.absences.CreateAbsence(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewAbsenceResponse(*absence))
}

// Update handles PUT /absences/:id.
func (h *AbsencesHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateAbsenceInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.ID = c.Params("id")
	absence, err := h.absences.UpdateAbsence(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAbsenceResponse(*absence))
}

// Delete handles DELETE /absences/:id.
func (h *AbsencesHandler) Delete(c *fiber.Ctx) error {
	absence, err := h.absences.DeleteAbsence(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAbsenceResponse(*absence))
}

// ListTypes handles GET /absence-types.
func (h *AbsencesHandler) ListTypes(c *fiber.Ctx) error {
	args, err := connectionArgs(c)
	if err != nil {
		return err
	}
	conn, err := h.absences.AbsenceTypes(c.UserContext(), service.AbsenceTypesQuery{ID: optionalQuery(c, "id"), Args: args})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConnection(conn, dto.NewAbsenceTypeResponse))
}

// CreateType handles POST /absence-types.
func (h *AbsencesHandler) CreateType(c *fiber.Ctx) error {
	var in service.AbsenceTypeInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	t, err := h.absences.CreateAbsenceType(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewAbsenceTypeResponse(*t))
}

// UpdateType handles PUT /absence-types/:id.
func (h *AbsencesHandler) UpdateType(c *fiber.Ctx) error {
	var in service.UpdateAbsenceTypeInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.ID = c.Params("id")
	t, err := h.absences.UpdateAbsenceType(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAbsenceTypeResponse(*t))
}

// DeleteType handles DELETE /absence-types/:id.
func (h *AbsencesHandler) DeleteType(c *fiber.Ctx) error {
	t, err := h.absences.DeleteAbsenceType(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAbsenceTypeResponse(*t))
}
