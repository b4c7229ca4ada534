package orders

import (
	"github.com/google/uuid"

	"github.com/adolfosa/feria-manager/pkg/enums"
	"github.com/adolfosa/feria-manager/pkg/types"
)

// CreateOrderInput carries the validated fields for a new order. DeliveryDate
// arrives as the raw "YYYY-MM-DD" string from the request body.
type CreateOrderInput struct {
	UserID       uuid.UUID
	ClientID     uuid.UUID
	ProductID    uuid.UUID
	Quantity     int
	DeliveryDate string
}

// ChangeStatusInput requests a lifecycle move. Status is the raw string from
// the request so the service can reject unknown values.
type ChangeStatusInput struct {
	UserID  uuid.UUID
	OrderID uuid.UUID
	Status  string
}

// Row is the list view of an order with the client and product names joined
// in, so the listing needs no follow-up lookups.
type Row struct {
	ID           uuid.UUID         `json:"id"`
	ClientID     uuid.UUID         `json:"client_id"`
	ClientName   string            `json:"client_name"`
	ProductID    uuid.UUID         `json:"product_id"`
	ProductName  string            `json:"product_name"`
	Quantity     int               `json:"quantity"`
	DeliveryDate types.Date        `json:"delivery_date"`
	Status       enums.OrderStatus `json:"status"`
}
