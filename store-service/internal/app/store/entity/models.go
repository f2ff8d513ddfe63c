package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatusPending - начальный статус любого заказа
const OrderStatusPending = "Pending"

// Category представляет категорию товаров
type Category struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Description string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"not null"`
	Products    []Product `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Category) TableName() string {
	return "categories"
}

// Product представляет товар в каталоге
type Product struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:varchar(1000)"`
	Price       decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Stock       int             `gorm:"not null"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    *Category       `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time       `gorm:"not null"`
}

func (Product) TableName() string {
	return "products"
}

// Order представляет заказ покупателя
// Сумма заказа вычисляется один раз при создании
type Order struct {
	ID            uint            `gorm:"primaryKey"`
	CustomerName  string          `gorm:"type:varchar(200);not null"`
	CustomerEmail string          `gorm:"type:varchar(200);not null"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Status        string          `gorm:"type:varchar(50);not null"`
	CreatedAt     time.Time       `gorm:"not null;index"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem представляет позицию заказа
// UnitPrice фиксируется на момент оформления и не пересчитывается
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null;index"`
	Product   *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(18,2);not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal возвращает стоимость позиции
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type User struct {
	ID           uint      `gorm:"primaryKey"`
	UserName     string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (User) TableName() string {
	return "users"
}

type RefreshToken struct {
	ID        uint       `gorm:"primaryKey"`
	Token     string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	UserID    uint       `gorm:"not null;index"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	Revoked   bool       `gorm:"not null;default:false"`
	RevokedAt *time.Time
	CreatedAt time.Time `gorm:"not null"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

// IsActive сообщает, можно ли использовать токен для обновления пары
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.Revoked && now.Before(t.ExpiresAt)
}

// AllModels возвращает модели для AutoMigrate в порядке зависимостей
func AllModels() []interface{} {
	return []interface{}{
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&User{},
		&RefreshToken{},
	}
}
