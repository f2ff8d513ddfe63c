package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ministore/pkg/logger"
	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/infrastructure"
)

func toCategoryResponse(c *entity.Category) *entity.CategoryResponse {
	return &entity.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func toProductResponse(p *entity.Product) *entity.ProductResponse {
	resp := &entity.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}

func toOrderResponse(o *entity.Order) *entity.OrderResponse {
	items := make([]entity.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		itemResp := entity.OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
		if item.Product != nil {
			itemResp.ProductName = item.Product.Name
		}
		items = append(items, itemResp)
	}

	return &entity.OrderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		TotalAmount:   o.TotalAmount,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
		OrderItems:    items,
	}
}

// publishEvent отправляет событие в Kafka
// Ошибки только логируются: операция уже выполнена, проблемы с Kafka не критичны
func publishEvent(ctx context.Context, publisher infrastructure.MessagePublisher, key string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal event")
		return
	}

	if err := publisher.PublishMessage(ctx, key, data); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to publish event")
	}
}

func eventKey(prefix string, id uint) string {
	return fmt.Sprintf("%s-%d", prefix, id)
}
