package repository

// Repos agrupa los repositorios atados a una misma transacción.
type Repos struct {
	Products       ProductRepository
	Locations      StockLocationRepository
	Users          UserRepository
	PaymentMethods PaymentMethodRepository
	Stock          StockRepository
	Movements      InventoryMovementRepository
	Purchases      PurchaseRepository
	Sales          SaleRepository
	Adjustments    AdjustmentRepository
	Shifts         ShiftRepository
}
