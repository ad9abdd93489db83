package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-roster/internal/api/dto"
	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/service"
	apperrors "github.com/spec-kit/shift-roster/pkg/util/errorutil"
)

// SessionsHandler manages roster session endpoints.
type SessionsHandler struct {
	service *service.ScheduleService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(scheduleService *service.ScheduleService) *SessionsHandler {
	return &SessionsHandler{service: scheduleService}
}

// Create POST /sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	var req dto.RosterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	view, err := h.service.CreateSession(c.UserContext(), req.Config())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": sessionResponse(view)})
}

// Get GET /sessions/:id.
func (h *SessionsHandler) Get(c *fiber.Ctx) error {
	view, err := h.service.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(view)})
}

// AddEmployee POST /sessions/:id/employees.
func (h *SessionsHandler) AddEmployee(c *fiber.Ctx) error {
	var req dto.AddEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(string(req.Category)) == "" {
		return apperrors.NewValidationError("category required", nil)
	}
	view, added, err := h.service.AddEmployee(c.UserContext(), c.Params("id"), req.Category)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.AddEmployeeResponse{
		Employee: added,
		Session:  sessionResponse(view),
	}})
}

// Rebuild POST /sessions/:id/rebuild.
func (h *SessionsHandler) Rebuild(c *fiber.Ctx) error {
	view, err := h.service.Rebuild(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sessionResponse(view)})
}

// Solve POST /sessions/:id/solve.
func (h *SessionsHandler) Solve(c *fiber.Ctx) error {
	out, err := h.service.Solve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": solveResponse(out)})
}

// Enumerate POST /sessions/:id/enumerate?limit=k.
func (h *SessionsHandler) Enumerate(c *fiber.Ctx) error {
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	sink := &collectingSink{}
	out, err := h.service.Enumerate(c.UserContext(), c.Params("id"), limit, sink)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": enumerateResponse(out, sink.items)})
}

func sessionResponse(view *service.SessionView) dto.SessionResponse {
	ops := view.Session.Operations
	if ops == nil {
		ops = []domain.Operation{}
	}
	return dto.SessionResponse{
		ID:         view.Session.ID,
		Version:    view.Session.Version,
		Config:     view.Session.Config,
		Operations: ops,
		Model:      view.Model,
		CreatedAt:  view.Session.CreatedAt,
		UpdatedAt:  view.Session.UpdatedAt,
	}
}
