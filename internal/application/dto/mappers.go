package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// ToProductResponse mapea la entidad a su salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		IsActive:      p.IsActive,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func ToLocationResponse(l *entity.StockLocation) LocationResponse {
	return LocationResponse{ID: l.ID, Name: l.Name, IsActive: l.IsActive, CreatedAt: l.CreatedAt, UpdatedAt: l.UpdatedAt}
}

func ToStockResponse(ws *entity.WarehouseStock) StockResponse {
	return StockResponse{ProductID: ws.ProductID, LocationID: ws.LocationID, Quantity: ws.Quantity, UpdatedAt: ws.UpdatedAt}
}

func ToPaymentMethodResponse(pm *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{ID: pm.ID, Name: pm.Name, RequiresReference: pm.RequiresReference}
}

// ToSaleResponse mapea la venta; costs es el costo FIFO por id de línea.
func ToSaleResponse(s *entity.Sale, costs map[string]decimal.Decimal) SaleResponse {
	out := SaleResponse{
		ID:            s.ID,
		UserID:        s.UserID,
		ShiftID:       s.ShiftID,
		LocationID:    s.LocationID,
		PaymentMethod: s.PaymentMethodName,
		TransferCode:  s.TransferCode,
		Total:         s.Total,
		CreatedAt:     s.CreatedAt,
		Items:         make([]SaleItemResponse, 0, len(s.Items)),
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, SaleItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
			Cost:      costs[it.ID],
		})
	}
	return out
}

func ToPurchaseResponse(p *entity.Purchase) PurchaseResponse {
	out := PurchaseResponse{
		ID:         p.ID,
		UserID:     p.UserID,
		LocationID: p.LocationID,
		Total:      p.Total,
		CreatedAt:  p.CreatedAt,
		Items:      make([]PurchaseItemResponse, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		out.Items = append(out.Items, PurchaseItemResponse{
			ID: it.ID, ProductID: it.ProductID, Quantity: it.Quantity, UnitCost: it.UnitCost, TotalCost: it.TotalCost,
		})
	}
	return out
}

func ToAdjustmentResponse(a *entity.InventoryAdjustment) AdjustmentResponse {
	return AdjustmentResponse{
		ID: a.ID, ProductID: a.ProductID, LocationID: a.LocationID, UserID: a.UserID,
		Reason: a.Reason, Quantity: a.Quantity, CreatedAt: a.CreatedAt,
	}
}

func ToShiftResponse(s *entity.Shift) ShiftResponse {
	return ShiftResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		LocationID:  s.StockLocationID,
		ShiftDate:   s.ShiftDate.Format("2006-01-02"),
		StartTime:   s.StartTime,
		EndTime:     s.EndTime,
		StartAmount: s.StartAmount,
		Open:        s.IsOpen(),
	}
}

func ToLocationPriceResponse(lp *entity.ProductLocationPrice) LocationPriceResponse {
	return LocationPriceResponse{ProductID: lp.ProductID, LocationID: lp.LocationID, SalePrice: lp.SalePrice}
}

func ToShiftSnapshotResponse(s *entity.ShiftStockSnapshot) ShiftSnapshotResponse {
	return ShiftSnapshotResponse{
		ProductID: s.ProductID, LocationID: s.LocationID, Quantity: s.Quantity, Type: string(s.Type), CreatedAt: s.CreatedAt,
	}
}

func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Role: u.Role, StockLocationID: u.StockLocationID, IsActive: u.IsActive}
}
