package mysql

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/boipara/bookstore/internal/infrastructure/config"
)

// NewDB opens the configured store (MySQL in production, SQLite for local runs)
// and migrates the schema when enabled.
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info
	}

	if cfg.Database.Driver == "sqlite" {
		db, err := OpenSQLite(cfg.Database.DSN(), logLevel)
		if err != nil {
			return nil, err
		}
		log.Info("database ready", zap.String("driver", "sqlite"), zap.String("path", cfg.Database.SQLitePath))
		return db, nil
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := autoMigrate(db); err != nil {
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
	}

	log.Info("database ready", zap.String("driver", "mysql"), zap.String("host", cfg.Database.Host))
	return db, nil
}

// OpenSQLite opens a SQLite database and migrates it. A single connection is used,
// so transactions serialize instead of failing with "database is locked".
// Use "file:<name>?mode=memory&cache=shared" for a throwaway in-memory store.
func OpenSQLite(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig(logLevel))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}

func gormConfig(logLevel logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&BookModel{},
		&OrderModel{},
		&OrderItemModel{},
		&NotificationModel{},
		&OutboxModel{},
		&ReturnModel{},
		&ReturnItemModel{},
		&BuybackModel{},
	)
}

// isDuplicateError detects unique-index violations from either driver.
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}

// ============================================================
// Models
// ============================================================

type UserModel struct {
	ID           uint   `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;size:100;not null"`
	Password     string `gorm:"size:255;not null"`
	Name         string `gorm:"size:50;not null"`
	Phone        string `gorm:"size:20"`
	Role         string `gorm:"index;size:16;not null;default:customer"`
	StoreName    string `gorm:"size:100"`
	StoreAddress string `gorm:"size:255"`
	Department   string `gorm:"size:100"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "users"
}

type BookModel struct {
	ID          uint   `gorm:"primaryKey"`
	ISBN        string `gorm:"index;size:20"`
	Title       string `gorm:"index:idx_search;size:200;not null"`
	Author      string `gorm:"index:idx_search;size:100;not null"`
	Category    string `gorm:"index;size:50"`
	Description string `gorm:"type:text"`
	CoverURL    string `gorm:"size:500"`
	Price       int64  `gorm:"index:idx_list;not null"`
	MRP         int64  `gorm:"not null;default:0"`
	Stock       int    `gorm:"not null;default:0"`
	Condition   string `gorm:"column:book_condition;size:16;not null;default:new"`
	SellerID    uint   `gorm:"index;not null"`
	Featured    bool   `gorm:"index;not null;default:false"`
	Bestseller  bool   `gorm:"index;not null;default:false"`
	CreatedAt   time.Time `gorm:"index:idx_list"`
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (BookModel) TableName() string {
	return "books"
}

type OrderModel struct {
	ID            uint             `gorm:"primaryKey"`
	OrderNo       string           `gorm:"uniqueIndex;size:32;not null"`
	UserID        uint             `gorm:"index;not null"`
	Subtotal      int64            `gorm:"not null"`
	ShippingFee   int64            `gorm:"not null"`
	Total         int64            `gorm:"not null"`
	Status        string           `gorm:"index;size:16;not null"`
	PaymentMethod string           `gorm:"size:16;not null"`
	ShipFullName  string           `gorm:"size:100"`
	ShipPhone     string           `gorm:"size:20"`
	ShipAddress   string           `gorm:"size:255"`
	ShipCity      string           `gorm:"size:64"`
	ShipPostal    string           `gorm:"size:16"`
	CustomerName  string           `gorm:"size:100"`
	CustomerEmail string           `gorm:"size:100"`
	CustomerPhone string           `gorm:"size:20"`
	Items         []OrderItemModel `gorm:"foreignKey:OrderID"`
	CancelledAt   *time.Time
	CreatedAt     time.Time `gorm:"index"`
	UpdatedAt     time.Time
}

func (OrderModel) TableName() string {
	return "orders"
}

type OrderItemModel struct {
	ID       uint   `gorm:"primaryKey"`
	OrderID  uint   `gorm:"index;not null"`
	BookID   uint   `gorm:"index;not null"`
	SellerID uint   `gorm:"index;not null"`
	Title    string `gorm:"size:200"`
	Quantity int    `gorm:"not null"`
	Price    int64  `gorm:"not null"`
}

func (OrderItemModel) TableName() string {
	return "order_items"
}

type NotificationModel struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index:idx_user_created;not null"`
	Type      string `gorm:"size:32;not null"`
	Title     string `gorm:"size:200;not null"`
	Message   string `gorm:"type:text;not null"`
	Link      string `gorm:"size:255"`
	OrderID   *uint
	ReturnID  *uint
	Read      bool      `gorm:"column:is_read;index;not null;default:false"`
	CreatedAt time.Time `gorm:"index:idx_user_created"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

type OutboxModel struct {
	ID            uint   `gorm:"primaryKey"`
	Kind          string `gorm:"size:16;not null"`
	AggregateType string `gorm:"size:32;not null"`
	AggregateID   uint   `gorm:"not null"`
	Payload       []byte `gorm:"not null"`
	Status        string `gorm:"index:idx_outbox_pending;size:16;not null"`
	Attempts      int    `gorm:"not null;default:0"`
	LastError     string `gorm:"size:500"`
	CreatedAt     time.Time `gorm:"index:idx_outbox_pending"`
	DispatchedAt  *time.Time
}

func (OutboxModel) TableName() string {
	return "outbox"
}

type ReturnModel struct {
	ID           uint              `gorm:"primaryKey"`
	OrderID      uint              `gorm:"index;not null"`
	OrderNo      string            `gorm:"size:32"`
	UserID       uint              `gorm:"index;not null"`
	SellerID     uint              `gorm:"index;not null"`
	Reason       string            `gorm:"size:255;not null"`
	Description  string            `gorm:"type:text"`
	Status       string            `gorm:"index;size:24;not null"`
	AdminNotes   string            `gorm:"type:text"`
	RefundAmount int64             `gorm:"not null;default:0"`
	SellerNotes  string            `gorm:"type:text"`
	RefundedAt   *time.Time
	Items        []ReturnItemModel `gorm:"foreignKey:ReturnID"`
	CreatedAt    time.Time         `gorm:"index"`
	UpdatedAt    time.Time
}

func (ReturnModel) TableName() string {
	return "returns"
}

type ReturnItemModel struct {
	ID       uint   `gorm:"primaryKey"`
	ReturnID uint   `gorm:"index;not null"`
	BookID   uint   `gorm:"not null"`
	Title    string `gorm:"size:200"`
	Quantity int    `gorm:"not null"`
	Price    int64  `gorm:"not null"`
}

func (ReturnItemModel) TableName() string {
	return "return_items"
}

type BuybackModel struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"index;not null"`
	Title        string `gorm:"size:200;not null"`
	Author       string `gorm:"size:100;not null"`
	ISBN         string `gorm:"size:20"`
	Category     string `gorm:"size:50"`
	Condition    string `gorm:"size:16"`
	Description  string `gorm:"type:text"`
	OfferedPrice int64  `gorm:"not null"`
	Status       string `gorm:"index;size:16;not null"`
	SellingPrice int64  `gorm:"not null;default:0"`
	Stock        int    `gorm:"not null;default:0"`
	AdminNotes   string `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

func (BuybackModel) TableName() string {
	return "buyback_requests"
}
