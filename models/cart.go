package models

import "gorm.io/gorm"

// 購物車和使用者一對一，第一次存取時才建立
type Cart struct {
	gorm.Model
	UserID    uint
	CartItems []CartItem `gorm:"foreignKey:CartID"`
}
