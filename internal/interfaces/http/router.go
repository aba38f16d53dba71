package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ipv/internal/application/inventory"
	"github.com/jhoicas/pos-ipv/internal/application/report"
	"github.com/jhoicas/pos-ipv/internal/application/usecase"
	"github.com/jhoicas/pos-ipv/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	SaleUC       *inventory.SaleUseCase
	PurchaseUC   *inventory.PurchaseUseCase
	AdjustmentUC *inventory.AdjustmentUseCase
	TransferUC   *inventory.TransferUseCase
	ShiftUC      *inventory.ShiftUseCase
	LedgerUC     *inventory.LedgerAuditUseCase
	IPVUC        *report.IPVUseCase
	ProductUC    *usecase.ProductUseCase
	LocationUC   *usecase.LocationUseCase
	UserUC       *usecase.UserUseCase
	JWTSecret    string
	Logger       *logger.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token; cada ruta exige un permiso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	inv := NewInventoryHandler(deps.SaleUC, deps.PurchaseUC, deps.AdjustmentUC, deps.TransferUC, deps.Logger)
	api.Post("/sales", RequireCapability(CapSell), inv.CreateSale)
	api.Get("/sales/:id", RequireCapability(CapRead), inv.GetSale)
	api.Post("/purchases", RequireCapability(CapPurchase), inv.CreatePurchase)
	api.Get("/purchases/:id", RequireCapability(CapRead), inv.GetPurchase)
	api.Post("/adjustments", RequireCapability(CapAdjust), inv.CreateAdjustment)
	api.Post("/transfers", RequireCapability(CapTransfer), inv.CreateTransfer)

	shifts := NewShiftHandler(deps.ShiftUC, deps.Logger)
	api.Post("/shifts/open", RequireCapability(CapSell), shifts.Open)
	api.Get("/shifts/:id", RequireCapability(CapRead), shifts.GetByID)
	api.Get("/shifts/:id/snapshots", RequireCapability(CapRead), shifts.Snapshots)

	reports := NewReportHandler(deps.IPVUC, deps.LedgerUC, deps.Logger)
	api.Get("/reports/ipv", RequireCapability(CapReport), reports.IPV)
	api.Get("/ledger/verify", RequireCapability(CapAdmin), reports.VerifyLedger)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Logger)
	products.Post("/", RequireCapability(CapCatalog), productHandler.Create)
	products.Get("/", RequireCapability(CapRead), productHandler.List)
	products.Get("/:id", RequireCapability(CapRead), productHandler.GetByID)
	products.Put("/:id", RequireCapability(CapCatalog), productHandler.Update)
	products.Get("/:id/prices", RequireCapability(CapRead), productHandler.ListLocationPrices)
	products.Put("/:id/prices", RequireCapability(CapCatalog), productHandler.SetLocationPrice)
	products.Get("/:id/prices/:locationId", RequireCapability(CapRead), productHandler.EffectivePrice)
	products.Delete("/:id/prices/:locationId", RequireCapability(CapCatalog), productHandler.DeleteLocationPrice)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC, deps.Logger)
	locations.Post("/", RequireCapability(CapCatalog), locationHandler.Create)
	locations.Get("/", RequireCapability(CapRead), locationHandler.List)
	locations.Get("/:id", RequireCapability(CapRead), locationHandler.GetByID)
	locations.Get("/:id/stock", RequireCapability(CapRead), locationHandler.Stock)
	locations.Post("/:id/shifts/close", RequireCapability(CapSell), shifts.Close)

	api.Get("/payment-methods", RequireCapability(CapRead), locationHandler.PaymentMethods)

	users := api.Group("/users", RequireCapability(CapAdmin))
	userHandler := NewUserHandler(deps.UserUC, deps.Logger)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Post("/:id/token", userHandler.IssueToken)
}
