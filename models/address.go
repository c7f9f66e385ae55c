package models

import "gorm.io/gorm"

type Address struct {
	gorm.Model
	UserID  uint   `gorm:"not null"`
	Line1   string `gorm:"not null"`
	Line2   string
	City    string
	State   string
	ZipCode string
	Country string
}
