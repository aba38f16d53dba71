package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// ShiftHandler apertura y cierre de turnos.
type ShiftHandler struct {
	uc  *inventory.ShiftUseCase
	log *logger.Logger
}

func NewShiftHandler(uc *inventory.ShiftUseCase, log *logger.Logger) *ShiftHandler {
	return &ShiftHandler{uc: uc, log: log}
}

// Open godoc
// @Summary      Abrir turno del día (idempotente)
// @Tags         shifts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  false  "Ubicación y fondo inicial"
// @Success      200   {object}  dto.ShiftResponse
// @Router       /api/shifts/open [post]
func (h *ShiftHandler) Open(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	shift, err := h.uc.OpenShift(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToShiftResponse(shift))
}

// Close godoc
// @Summary      Cerrar el turno abierto de la ubicación
// @Tags         shifts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ubicación"
// @Success      200  {object}  dto.ShiftResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/locations/{id}/shifts/close [post]
func (h *ShiftHandler) Close(c *fiber.Ctx) error {
	shift, err := h.uc.CloseShift(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToShiftResponse(shift))
}

func (h *ShiftHandler) GetByID(c *fiber.Ctx) error {
	shift, err := h.uc.GetShift(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToShiftResponse(shift))
}

// Snapshots fotos de stock START y END del turno.
func (h *ShiftHandler) Snapshots(c *fiber.Ctx) error {
	snaps, err := h.uc.ListShiftSnapshots(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.ShiftSnapshotResponse, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, dto.ToShiftSnapshotResponse(s))
	}
	return c.JSON(out)
}
