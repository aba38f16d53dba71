package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-ipv/internal/application/dto"
	"github.com/jhoicas/pos-ipv/internal/domain/entity"
)

// Capability permiso sobre una familia de operaciones.
type Capability string

const (
	CapSell     Capability = "sell"
	CapPurchase Capability = "purchase"
	CapAdjust   Capability = "adjust"
	CapTransfer Capability = "transfer"
	CapReport   Capability = "report"
	CapRead     Capability = "read"
	CapCatalog  Capability = "catalog"
	CapAdmin    Capability = "admin"
)

// capabilities tabla estática rol -> permisos. admin no aparece: tiene todos.
var capabilities = map[string]map[Capability]bool{
	entity.RoleBodeguero: {
		CapPurchase: true, CapAdjust: true, CapTransfer: true, CapReport: true, CapRead: true, CapCatalog: true,
	},
	entity.RoleVendedor: {
		CapSell: true, CapReport: true, CapRead: true,
	},
}

// HasCapability indica si el rol puede ejercer cap.
func HasCapability(role string, cap Capability) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return capabilities[role][cap]
}

// RequireCapability verifica el permiso del rol del token. Debe usarse DESPUÉS de AuthMiddleware.
//   - 401 si el token no trae rol.
//   - 403 si el rol no tiene el permiso.
func RequireCapability(cap Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "MISSING_ROLE",
				Message: "el token no incluye rol",
			})
		}
		if !HasCapability(role, cap) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "el rol '" + role + "' no tiene permiso '" + string(cap) + "'",
			})
		}
		return c.Next()
	}
}
