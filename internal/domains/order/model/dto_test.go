package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateOrderRequest() CreateOrderRequest {
	return CreateOrderRequest{
		CartItems: []OrderItemRequest{
			{ProductID: 1, Quantity: 2},
		},
		CustomerName:    "Asha Deshmukh",
		CustomerPhone:   "9876543210",
		DeliveryAddress: "12 MG Road",
		City:            "Amravati",
		Pincode:         "444601",
	}
}

func TestCreateOrderRequestValidate_Valid(t *testing.T) {
	require.NoError(t, validCreateOrderRequest().Validate())
}

func TestCreateOrderRequestValidate_EmptyCart(t *testing.T) {
	req := validCreateOrderRequest()
	req.CartItems = nil

	assert.Error(t, req.Validate())
}

func TestCreateOrderRequestValidate_BadQuantity(t *testing.T) {
	req := validCreateOrderRequest()
	req.CartItems[0].Quantity = 0

	assert.Error(t, req.Validate())
}

func TestCreateOrderRequestValidate_BadPhone(t *testing.T) {
	req := validCreateOrderRequest()

	req.CustomerPhone = "98765"
	assert.Error(t, req.Validate(), "too short")

	req.CustomerPhone = "98765abcde"
	assert.Error(t, req.Validate(), "non-digits")
}

func TestCreateOrderRequestValidate_BadPincode(t *testing.T) {
	req := validCreateOrderRequest()

	req.Pincode = "4446"
	assert.Error(t, req.Validate(), "too short")

	req.Pincode = "44460A"
	assert.Error(t, req.Validate(), "non-digits")
}

func TestCreateOrderRequestValidate_CityOptional(t *testing.T) {
	req := validCreateOrderRequest()
	req.City = ""

	assert.NoError(t, req.Validate())
}

func TestUpdateOrderStatusRequestValidate(t *testing.T) {
	assert.NoError(t, UpdateOrderStatusRequest{OrderStatus: OrderStatusConfirmed}.Validate())
	assert.NoError(t, UpdateOrderStatusRequest{OrderStatus: OrderStatusCancelled}.Validate())

	assert.Error(t, UpdateOrderStatusRequest{OrderStatus: "returned"}.Validate())
	assert.Error(t, UpdateOrderStatusRequest{}.Validate())
}

func TestListOrdersRequestValidate(t *testing.T) {
	assert.NoError(t, ListOrdersRequest{}.Validate())
	assert.NoError(t, ListOrdersRequest{Status: OrderStatusShipped}.Validate())
	assert.Error(t, ListOrdersRequest{Status: "refunded"}.Validate())
}
