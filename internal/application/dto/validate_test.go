package dto

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ipv/internal/domain"
)

func TestValidate_Sale(t *testing.T) {
	ok := CreateSaleRequest{
		PaymentMethod: "efectivo",
		Items:         []LineItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: decimal.NewFromInt(8)}},
	}
	require.NoError(t, Validate(ok))

	empty := ok
	empty.Items = nil
	err := Validate(empty)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "items")

	badQty := ok
	badQty.Items = []LineItemRequest{{ProductID: "p1", Quantity: 0}}
	err = Validate(badQty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quantity")

	negPrice := ok
	negPrice.Items = []LineItemRequest{{ProductID: "p1", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}
	assert.ErrorIs(t, Validate(negPrice), domain.ErrInvalidInput)
}

func TestValidate_Transfer(t *testing.T) {
	req := CreateTransferRequest{ProductID: "p", FromLocationID: "a", ToLocationID: "a", Quantity: 3}
	err := Validate(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "to_location_id")

	req.ToLocationID = "b"
	assert.NoError(t, Validate(req))
}

func TestValidate_Adjustment(t *testing.T) {
	req := CreateAdjustmentRequest{LocationID: "l", ProductID: "p", Reason: "merma", Quantity: 0}
	assert.ErrorIs(t, Validate(req), domain.ErrInvalidInput)
	req.Quantity = -2
	assert.NoError(t, Validate(req))
}
