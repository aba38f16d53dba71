package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/application/report"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// ReportHandler reporte IPV y verificación del ledger.
type ReportHandler struct {
	ipv   *report.IPVUseCase
	audit *inventory.LedgerAuditUseCase
	log   *logger.Logger
}

func NewReportHandler(ipv *report.IPVUseCase, audit *inventory.LedgerAuditUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{ipv: ipv, audit: audit, log: log}
}

// IPV godoc
// @Summary      Reporte diario de inventario (IPV)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  string  true   "Ubicación"
// @Param        date         query  string  false  "Día YYYY-MM-DD (por defecto hoy)"
// @Success      200  {object}  dto.IPVReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/ipv [get]
func (h *ReportHandler) IPV(c *fiber.Ctx) error {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		d, err := h.ipv.ParseDay(raw)
		if err != nil {
			return writeError(c, h.log, err)
		}
		day = d
	}
	rep, err := h.ipv.BuildReport(c.UserContext(), c.Query("location_id"), day)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(rep)
}

// VerifyLedger godoc
// @Summary      Comparar saldos con el ledger
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        repair  query  bool  false  "Reescribir saldos divergentes"
// @Success      200  {object}  dto.LedgerVerifyResponse
// @Router       /api/ledger/verify [get]
func (h *ReportHandler) VerifyLedger(c *fiber.Ctx) error {
	audit, err := h.audit.VerifyLedger(c.UserContext(), c.QueryBool("repair", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := dto.LedgerVerifyResponse{
		Checked:       audit.Checked,
		Repaired:      audit.Repaired,
		Discrepancies: make([]dto.LedgerDiscrepancyResponse, 0, len(audit.Discrepancies)),
	}
	for _, d := range audit.Discrepancies {
		out.Discrepancies = append(out.Discrepancies, dto.LedgerDiscrepancyResponse{
			ProductID: d.ProductID, LocationID: d.LocationID, Stored: d.Stored, Derived: d.Derived,
		})
	}
	return c.JSON(out)
}
