package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ministore/store-service/internal/app/store/entity"
	"ministore/store-service/internal/app/store/infrastructure"
	"ministore/store-service/internal/app/store/repository"

	"github.com/shopspring/decimal"
)

// OrderService обрабатывает бизнес-логику заказов
// Координирует работу репозиториев и Kafka
type OrderService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	publisher    infrastructure.MessagePublisher
	reserveStock bool
}

// NewOrderService создает новый сервис заказов
// При reserveStock = true остатки списываются в транзакции создания заказа,
// иначе проверка остатков не блокирует их и параллельные заказы могут превысить склад
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	publisher infrastructure.MessagePublisher,
	reserveStock bool,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		publisher:    publisher,
		reserveStock: reserveStock,
	}
}

// CreateOrder создает новый заказ
// 1. Проверяет каждую позицию по порядку, останавливаясь на первой ошибке
// 2. Фиксирует текущую цену товара в позиции и считает сумму в decimal
// 3. Сохраняет заказ с позициями в одной транзакции
// 4. Отправляет событие ORDER_CREATED в Kafka
func (s *OrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.OrderResponse, error) {
	items := make([]entity.OrderItem, 0, len(req.OrderItems))
	products := make([]*entity.Product, 0, len(req.OrderItems))
	total := decimal.Zero

	for _, line := range req.OrderItems {
		if line.Quantity <= 0 {
			return nil, validationError("quantity", fmt.Sprintf("must be positive for product %d", line.ProductID))
		}

		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return nil, &ProductNotFoundError{ProductID: line.ProductID}
			}
			return nil, fmt.Errorf("failed to get product: %w", err)
		}

		if product.Stock < line.Quantity {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   line.Quantity,
			}
		}

		item := entity.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		}

		total = total.Add(item.LineTotal())
		items = append(items, item)
		products = append(products, product)
	}

	order := &entity.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		TotalAmount:   total,
		Status:        entity.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
		Items:         items,
	}

	if err := s.persist(ctx, order); err != nil {
		return nil, err
	}

	// Товары подставляются после сохранения, чтобы GORM не трогал таблицу products
	for i := range order.Items {
		order.Items[i].Product = products[i]
	}

	publishEvent(ctx, s.publisher, eventKey("order", order.ID), entity.OrderEvent{
		EventType:     entity.EventOrderCreated,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		ItemsCount:    len(order.Items),
		Timestamp:     time.Now().UTC(),
	})

	return toOrderResponse(order), nil
}

func (s *OrderService) persist(ctx context.Context, order *entity.Order) error {
	if !s.reserveStock {
		if err := s.orderRepo.Create(ctx, order); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	}

	err := s.orderRepo.CreateReservingStock(ctx, order)
	if err == nil {
		return nil
	}

	var conflict *repository.StockConflictError
	if !errors.As(err, &conflict) {
		return fmt.Errorf("failed to create order: %w", err)
	}

	// Остаток изменился между проверкой и списанием, перечитываем актуальное значение
	product, getErr := s.productRepo.GetByID(ctx, conflict.ProductID)
	if getErr != nil {
		if errors.Is(getErr, repository.ErrProductNotFound) {
			return &ProductNotFoundError{ProductID: conflict.ProductID}
		}
		return fmt.Errorf("failed to get product: %w", getErr)
	}

	requested := 0
	for _, item := range order.Items {
		if item.ProductID == conflict.ProductID {
			requested += item.Quantity
		}
	}

	return &InsufficientStockError{
		ProductName: product.Name,
		Available:   product.Stock,
		Requested:   requested,
	}
}

// GetAll получает все заказы, новые первыми
func (s *OrderService) GetAll(ctx context.Context) ([]entity.OrderResponse, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}

	result := make([]entity.OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, *toOrderResponse(&orders[i]))
	}

	return result, nil
}

// GetByID получает заказ с позициями
func (s *OrderService) GetByID(ctx context.Context, id uint) (*entity.OrderResponse, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return toOrderResponse(order), nil
}

// UpdateStatus меняет статус заказа и отправляет событие ORDER_STATUS_UPDATED
// Статус - произвольная непустая строка
func (s *OrderService) UpdateStatus(ctx context.Context, id uint, status string) (*entity.OrderResponse, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, validationError("status", "must not be empty")
	}

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	publishEvent(ctx, s.publisher, eventKey("order", order.ID), entity.OrderEvent{
		EventType:     entity.EventOrderStatusUpdated,
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		ItemsCount:    len(order.Items),
		Timestamp:     time.Now().UTC(),
	})

	return toOrderResponse(order), nil
}
