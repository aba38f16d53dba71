package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// InventoryHandler ventas, compras, ajustes y traslados.
type InventoryHandler struct {
	sales       *inventory.SaleUseCase
	purchases   *inventory.PurchaseUseCase
	adjustments *inventory.AdjustmentUseCase
	transfers   *inventory.TransferUseCase
	log         *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	sales *inventory.SaleUseCase,
	purchases *inventory.PurchaseUseCase,
	adjustments *inventory.AdjustmentUseCase,
	transfers *inventory.TransferUseCase,
	log *logger.Logger,
) *InventoryHandler {
	return &InventoryHandler{sales: sales, purchases: purchases, adjustments: adjustments, transfers: transfers, log: log}
}

// CreateSale godoc
// @Summary      Registrar venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.sales.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToSaleResponse(res.Sale, res.Costs()))
}

// GetSale devuelve una venta con el costo FIFO de cada línea.
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	res, err := h.sales.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToSaleResponse(res.Sale, res.Costs()))
}

// CreatePurchase godoc
// @Summary      Registrar compra (entrada de lotes)
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "Compra"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.purchases.CreatePurchase(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToPurchaseResponse(p))
}

func (h *InventoryHandler) GetPurchase(c *fiber.Ctx) error {
	p, err := h.purchases.GetPurchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToPurchaseResponse(p))
}

// CreateAdjustment godoc
// @Summary      Ajuste manual de stock
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAdjustmentRequest  true  "Ajuste"
// @Success      201   {object}  dto.AdjustmentResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/adjustments [post]
func (h *InventoryHandler) CreateAdjustment(c *fiber.Ctx) error {
	var in dto.CreateAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.adjustments.CreateAdjustment(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToAdjustmentResponse(a))
}

// CreateTransfer godoc
// @Summary      Traslado entre ubicaciones
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Traslado"
// @Success      201   {object}  dto.TransferResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *InventoryHandler) CreateTransfer(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.transfers.CreateTransfer(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{TransferID: id})
}
