package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run applies the schema for the bounded contexts and seeds the fixed lookup rows.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(
		&customerRecord{},
		&employeeRecord{},
		&sessionRecord{},
		&categoryRecord{},
		&supplierRecord{},
		&productRecord{},
		&paymentMethodRecord{},
		&deliveryMethodRecord{},
		&orderStatusRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&idempotencyRecord{},
	); err != nil {
		return err
	}
	return seedLookups(db)
}

func seedLookups(db *gorm.DB) error {
	payment := []paymentMethodRecord{{ID: 1, Name: "Cash"}, {ID: 2, Name: "Card"}}
	delivery := []deliveryMethodRecord{
		{ID: 1, Name: "Pickup", Fee: decimal.Zero},
		{ID: 2, Name: "Courier", Fee: decimal.NewFromInt(300)},
	}
	statuses := []orderStatusRecord{
		{ID: 1, Name: "New"},
		{ID: 2, Name: "Processing"},
		{ID: 3, Name: "Shipped"},
		{ID: 4, Name: "Delivered"},
		{ID: 5, Name: "Cancelled"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		ignore := clause.OnConflict{DoNothing: true}
		if err := tx.Clauses(ignore).Create(&payment).Error; err != nil {
			return err
		}
		if err := tx.Clauses(ignore).Create(&delivery).Error; err != nil {
			return err
		}
		return tx.Clauses(ignore).Create(&statuses).Error
	})
}

// Account schema mirrors the identity Postgres adapter; customers and employees share columns.
type customerRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	LastName   string    `gorm:"column:last_name;size:50"`
	FirstName  string    `gorm:"column:first_name;size:50"`
	MiddleName string    `gorm:"column:middle_name;size:50"`
	Email      string    `gorm:"column:email;size:50;uniqueIndex:idx_customers_email"`
	Phone      string    `gorm:"column:phone;size:32"`
	Password   string    `gorm:"column:password;size:50"`
	RoleID     int       `gorm:"column:role_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (customerRecord) TableName() string { return "customers" }

type employeeRecord struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	LastName   string    `gorm:"column:last_name;size:50"`
	FirstName  string    `gorm:"column:first_name;size:50"`
	MiddleName string    `gorm:"column:middle_name;size:50"`
	Email      string    `gorm:"column:email;size:50;uniqueIndex:idx_employees_email"`
	Phone      string    `gorm:"column:phone;size:32"`
	Password   string    `gorm:"column:password;size:50"`
	RoleID     int       `gorm:"column:role_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (employeeRecord) TableName() string { return "employees" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token       string     `gorm:"primaryKey;column:token;size:512"`
	AccountID   int64      `gorm:"column:account_id;index"`
	AccountKind string     `gorm:"column:account_kind;size:16"`
	RoleID      int        `gorm:"column:role_id"`
	Email       string     `gorm:"column:email"`
	DisplayName string     `gorm:"column:display_name"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;index"`
	CreatedAt   time.Time  `gorm:"column:created_at;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;size:100"`
}

func (categoryRecord) TableName() string { return "categories" }

type supplierRecord struct {
	ID    int64  `gorm:"primaryKey;column:id"`
	Name  string `gorm:"column:name;size:100"`
	Phone string `gorm:"column:phone;size:32"`
	Email string `gorm:"column:email;size:100"`
}

func (supplierRecord) TableName() string { return "suppliers" }

// Product schema mirrors the catalog Postgres adapter.
type productRecord struct {
	ID              int64            `gorm:"primaryKey;column:id"`
	SKU             string           `gorm:"column:sku;size:64;uniqueIndex:idx_products_sku"`
	Name            string           `gorm:"column:name;size:200;index"`
	Description     string           `gorm:"column:description"`
	Price           decimal.Decimal  `gorm:"column:price;type:numeric(12,2)"`
	DiscountPercent *decimal.Decimal `gorm:"column:discount_percent;type:numeric(5,2)"`
	StockQuantity   int              `gorm:"column:stock_quantity"`
	CategoryID      *int64           `gorm:"column:category_id;index"`
	SupplierID      *int64           `gorm:"column:supplier_id;index"`
	CreatedAt       time.Time        `gorm:"column:created_at"`
	UpdatedAt       time.Time        `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type paymentMethodRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;size:50"`
}

func (paymentMethodRecord) TableName() string { return "payment_methods" }

type deliveryMethodRecord struct {
	ID   int64           `gorm:"primaryKey;column:id"`
	Name string          `gorm:"column:name;size:50"`
	Fee  decimal.Decimal `gorm:"column:fee;type:numeric(12,2)"`
}

func (deliveryMethodRecord) TableName() string { return "delivery_methods" }

type orderStatusRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;size:50"`
}

func (orderStatusRecord) TableName() string { return "order_statuses" }

// Order schema mirrors the orders Postgres adapter.
type orderRecord struct {
	ID              int64           `gorm:"primaryKey;column:id"`
	CustomerID      int64           `gorm:"column:customer_id;index"`
	OrderDate       time.Time       `gorm:"column:order_date;index"`
	TotalAmount     decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2)"`
	StatusID        int64           `gorm:"column:status_id"`
	PaymentMethodID int64           `gorm:"column:payment_method_id"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	OrderID   int64           `gorm:"column:order_id;index"`
	ProductID int64           `gorm:"column:product_id;index"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2)"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Idempotency schema mirrors the checkout idempotency store.
type idempotencyRecord struct {
	IdempotencyKey string    `gorm:"primaryKey;column:idempotency_key;size:255"`
	RequestHash    string    `gorm:"column:request_hash;size:128"`
	OrderID        int64     `gorm:"column:order_id"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (idempotencyRecord) TableName() string { return "checkout_idempotency_keys" }
