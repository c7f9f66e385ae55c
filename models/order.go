package models

import "gorm.io/gorm"

// 訂單狀態只允許以下四種
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	gorm.Model
	UserID uint `gorm:"foreignKey:UserID"`
	User   User
	//付款確認前地址可能已被刪除，允許為空
	AddressID   *uint
	Address     *Address
	OrderItems  []OrderItem
	TotalAmount float64 `gorm:"not null"`
	Status      string  `gorm:"not null"`
	//外部金流交易編號，唯一鍵確保同一筆交易最多只建立一張訂單
	PaymentID *string `gorm:"uniqueIndex"`
}
