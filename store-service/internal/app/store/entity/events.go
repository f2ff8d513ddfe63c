package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	EventProductUpdated     = "PRODUCT_UPDATED"
	EventProductDeleted     = "PRODUCT_DELETED"
)

// OrderEvent публикуется в Kafka при создании заказа и смене статуса
type OrderEvent struct {
	EventType     string          `json:"eventType"`
	OrderID       uint            `json:"orderId"`
	CustomerEmail string          `json:"customerEmail"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Status        string          `json:"status"`
	ItemsCount    int             `json:"itemsCount"`
	Timestamp     time.Time       `json:"timestamp"`
}

// ProductEvent публикуется при изменении цены или удалении товара
type ProductEvent struct {
	EventType string          `json:"eventType"`
	ProductID uint            `json:"productId"`
	OldPrice  decimal.Decimal `json:"oldPrice"`
	NewPrice  decimal.Decimal `json:"newPrice"`
	Timestamp time.Time       `json:"timestamp"`
}
