package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-roster/internal/api/dto"
	"github.com/spec-kit/shift-roster/internal/domain"
	"github.com/spec-kit/shift-roster/internal/service"
	"github.com/spec-kit/shift-roster/internal/solver"
	apperrors "github.com/spec-kit/shift-roster/pkg/util/errorutil"
)

// SchedulesHandler serves one-shot solve and enumerate requests.
type SchedulesHandler struct {
	service *service.ScheduleService
}

// NewSchedulesHandler constructs handler.
func NewSchedulesHandler(scheduleService *service.ScheduleService) *SchedulesHandler {
	return &SchedulesHandler{service: scheduleService}
}

// Solve POST /schedules/solve.
func (h *SchedulesHandler) Solve(c *fiber.Ctx) error {
	var req dto.RosterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	out, err := h.service.SolveConfig(c.UserContext(), req.Config())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": solveResponse(out)})
}

// Enumerate POST /schedules/enumerate?limit=k.
func (h *SchedulesHandler) Enumerate(c *fiber.Ctx) error {
	var req dto.RosterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	limit, err := parseLimit(c)
	if err != nil {
		return err
	}
	sink := &collectingSink{}
	out, err := h.service.EnumerateConfig(c.UserContext(), req.Config(), limit, sink)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": enumerateResponse(out, sink.items)})
}

// collectingSink buffers snapshots for the response body.
type collectingSink struct {
	items []dto.SolutionItem
}

func (s *collectingSink) Receive(ordinal int, snap domain.Snapshot) bool {
	s.items = append(s.items, dto.SolutionItem{Ordinal: ordinal, Snapshot: snap})
	return true
}

func parseLimit(c *fiber.Ctx) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, apperrors.NewValidationError("limit must be a non-negative integer", map[string]any{"limit": raw})
	}
	return limit, nil
}

func solveResponse(out *service.SolveOutcome) dto.SolveResponse {
	return dto.SolveResponse{
		Status:   out.Status.String(),
		Message:  dto.StatusMessage(out.Status),
		Snapshot: out.Snapshot,
		Stats:    dto.NewStats(out.Stats),
		Model:    out.Model,
	}
}

func enumerateResponse(out *service.EnumerateOutcome, items []dto.SolutionItem) dto.EnumerateResponse {
	if items == nil {
		items = []dto.SolutionItem{}
	}
	return dto.EnumerateResponse{
		Status:    out.Summary.Status.String(),
		Message:   dto.StatusMessage(out.Summary.Status),
		Limit:     out.Summary.Limit,
		Delivered: out.Summary.Delivered,
		Stopped:   out.Summary.Stopped,
		Solutions: items,
		Stats:     dto.NewStats(out.Summary.Stats),
		Model:     out.Model,
	}
}

var _ solver.Sink = (*collectingSink)(nil)
