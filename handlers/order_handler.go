package handlers

import (
	"MyShop/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"log"
	"net/http"
)

// 計算購物車目前總金額
func cartTotal(cart *models.Cart) float64 {
	total := 0.0
	for _, cartItem := range cart.CartItems {
		total += float64(cartItem.Quantity) * cartItem.Product.Price
	}
	return total
}

// 在同一個事務內建立訂單、快照訂單商品並清空購物車，
// 任一步驟失敗時由呼叫端Rollback，不留下不完整的訂單
func createOrderWithItems(tx *gorm.DB, cart *models.Cart, order *models.Order) error {
	order.TotalAmount = cartTotal(cart)

	if err := tx.Create(order).Error; err != nil {
		return err
	}

	//快照下單當下的數量和單價
	orderItems := make([]models.OrderItem, len(cart.CartItems))
	for i, cartItem := range cart.CartItems {
		orderItems[i] = models.OrderItem{
			OrderID:   order.ID,
			ProductID: cartItem.ProductID,
			Quantity:  cartItem.Quantity,
			UnitPrice: cartItem.Product.Price,
		}
	}
	if err := tx.Create(&orderItems).Error; err != nil {
		return err
	}

	//清空購物車，購物車本身保留
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return nil
}

// 送出訂單並清空購物車
func CheckoutHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var checkoutReq struct {
		AddressID uint `json:"addressID" form:"addressID" binding:"required"`
	}
	if err := c.ShouldBind(&checkoutReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//地址必須屬於此使用者
	var address models.Address
	err := db.
		Where("id = ? AND user_id = ?", checkoutReq.AddressID, userID).
		First(&address).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此地址",
			})
			return
		}
		log.Printf("查詢地址失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢地址失敗",
		})
		return
	}

	//購物車不得為空
	cart, err := getCartWithItems(db, userID.(uint))
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
		})
		return
	}
	if err == gorm.ErrRecordNotFound || len(cart.CartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "購物車是空的",
		})
		return
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if tx.Error != nil {
		log.Printf("開啟資料庫事務失敗: %v\n", tx.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "提交訂單失敗",
		})
		return
	}

	order := models.Order{
		UserID:    userID.(uint),
		AddressID: &address.ID,
		Status:    models.OrderStatusPending,
	}

	if err := createOrderWithItems(tx, &cart, &order); err != nil {
		tx.Rollback()
		log.Printf("提交訂單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "提交訂單失敗",
		})
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("提交事務失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "提交訂單失敗",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "訂單已送出，成功清空購物車",
		"orderID":     order.ID,
		"totalAmount": order.TotalAmount,
	})
}

// 查詢訂單列表
func GetOrderListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var orders []models.Order
	err := db.
		Where("user_id = ?", userID).
		Preload("OrderItems").
		Order("created_at DESC").
		Find(&orders).
		Error
	if err != nil {
		log.Printf("查詢訂單列表失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢訂單列表失敗",
		})
		return
	}

	orderList := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		orderItemsData := make([]gin.H, 0, len(order.OrderItems))
		for _, orderItem := range order.OrderItems {
			orderItemsData = append(orderItemsData, gin.H{
				"ProductID": orderItem.ProductID,
				"Quantity":  orderItem.Quantity,
				"UnitPrice": orderItem.UnitPrice,
			})
		}
		orderList = append(orderList, gin.H{
			"OrderID":     order.ID,
			"OrderTime":   order.CreatedAt,
			"TotalAmount": order.TotalAmount,
			"Status":      order.Status,
			"AddressID":   order.AddressID,
			"orderItems":  orderItemsData,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功查詢訂單列表",
		"orderList": orderList,
	})
}

// 查詢訂單詳細資訊
func GetOrderDataHandler(c *gin.Context, db *gorm.DB) {
	orderID := c.Param("orderID")
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var order models.Order
	err := db.
		Where("id = ? AND user_id = ?", orderID, userID).
		Preload("OrderItems").
		Preload("OrderItems.Product").
		First(&order).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此訂單",
			})
			return
		}
		log.Printf("查詢訂單失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢訂單失敗",
		})
		return
	}

	orderItemsData := make([]gin.H, 0, len(order.OrderItems))
	for _, orderItem := range order.OrderItems {
		orderItemsData = append(orderItemsData, gin.H{
			"ProductID": orderItem.ProductID,
			"Name":      orderItem.Product.Name,
			"Quantity":  orderItem.Quantity,
			"UnitPrice": orderItem.UnitPrice,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "成功查詢訂單",
		"OrderID":        order.ID,
		"TotalAmount":    order.TotalAmount,
		"Status":         order.Status,
		"AddressID":      order.AddressID,
		"PaymentID":      order.PaymentID,
		"OrderTime":      order.CreatedAt,
		"orderItemsData": orderItemsData,
	})
}
