package models

import "gorm.io/gorm"

// 下單當下的商品快照，建立後不再更動
type OrderItem struct {
	gorm.Model
	OrderID   uint `gorm:"foreignKey:OrderID"`
	Order     Order
	ProductID uint `gorm:"foreignKey:ProductID"`
	Product   Product
	Quantity  uint `gorm:"not null"`
	//下單當下的單價，與商品目前價格脫鉤
	UnitPrice float64 `gorm:"not null"`
}
