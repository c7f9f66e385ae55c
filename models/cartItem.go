package models

import "time"

// 同一個購物車內每個商品最多一筆，由複合唯一鍵保證，重複加入時增加數量。
// 購物車商品移除時直接刪除，不做軟刪除，否則殘留的刪除列會撞到唯一鍵
type CartItem struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	CartID    uint `gorm:"uniqueIndex:idx_cart_product"`
	Cart      Cart
	ProductID uint `gorm:"uniqueIndex:idx_cart_product"`
	Product   Product
	Quantity  uint `gorm:"not null"`
}
