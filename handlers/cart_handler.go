package handlers

import (
	"MyShop/models"
	"errors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"log"
	"net/http"
)

// 查詢使用者的購物車，不存在則建立
func getOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.
		Where("user_id = ?", userID).
		Attrs(models.Cart{UserID: userID}).
		FirstOrCreate(&cart).
		Error
	return cart, err
}

// 查詢使用者的購物車及其商品，購物車不存在視為空
func getCartWithItems(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.
		Where("user_id = ?", userID).
		Preload("CartItems").
		Preload("CartItems.Product").
		First(&cart).
		Error
	return cart, err
}

func AddToCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var cartItemReq struct {
		ProductID uint `json:"productID" form:"productID" binding:"required"`
		Quantity  uint `json:"quantity" form:"quantity"`
	}
	if err := c.ShouldBind(&cartItemReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}
	if cartItemReq.Quantity == 0 {
		cartItemReq.Quantity = 1
	}

	//查詢商品是否存在
	var product models.Product
	err := db.First(&product, "id = ? AND is_active = ?", cartItemReq.ProductID, true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "查無此商品",
			})
			return
		}
		log.Printf("查詢商品失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查詢商品失敗",
		})
		return
	}

	//查詢購物車，沒有則建立
	cart, err := getOrCreateCart(db, userID.(uint))
	if err != nil {
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查詢購物車失敗",
		})
		return
	}

	//新增商品至購物車
	var cartItem models.CartItem
	err = db.
		Where("product_id = ? AND cart_id = ?", cartItemReq.ProductID, cart.ID).
		First(&cartItem).
		Error
	if err == gorm.ErrRecordNotFound {
		//購物車沒有相同物品，新增此物品至購物車
		if cartItemReq.Quantity > product.Stock {
			cartItemReq.Quantity = product.Stock
		}
		createErr := db.Create(&models.CartItem{
			CartID:    cart.ID,
			ProductID: cartItemReq.ProductID,
			Quantity:  cartItemReq.Quantity,
		}).Error
		if createErr == nil {
			c.JSON(http.StatusOK, gin.H{
				"message":   "成功新增物品至購物車",
				"productID": cartItemReq.ProductID,
				"quantity":  cartItemReq.Quantity,
			})
			return
		}
		if !errors.Is(createErr, gorm.ErrDuplicatedKey) {
			log.Printf("新增物品至購物車失敗: %v\n", createErr)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "新增物品至購物車失敗",
			})
			return
		}
		//唯一鍵衝突代表另一個請求同時加入了相同物品，改為累加數量
		err = db.
			Where("product_id = ? AND cart_id = ?", cartItemReq.ProductID, cart.ID).
			First(&cartItem).
			Error
	}
	if err != nil {
		log.Printf("查詢購物車商品錯誤: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車商品錯誤",
		})
		return
	}

	//購物車有相同物品，增加商品數量而非新增一筆
	cartItem.Quantity += cartItemReq.Quantity
	if cartItem.Quantity > product.Stock {
		cartItem.Quantity = product.Stock
	}
	db.Updates(&cartItem)
	c.JSON(http.StatusOK, gin.H{
		"message":   "成功更新購物車物品數量",
		"productID": cartItem.ProductID,
		"quantity":  cartItem.Quantity,
	})
	return
}

// 更新購物車商品數量
func UpdateCartItemQuantityHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var cartItemReq struct {
		ProductID uint `json:"productID" form:"productID" binding:"required"`
		Quantity  uint `json:"quantity" form:"quantity"`
	}
	if err := c.ShouldBind(&cartItemReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	if cartItemReq.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "商品數量不得小於1",
		})
		return
	}

	//查詢購物車
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "查無此購物車",
			})
			return
		}
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查詢購物車失敗",
		})
		return
	}

	//查詢購物車商品
	var cartItem models.CartItem
	err = db.
		Where("product_id = ? AND cart_id = ?", cartItemReq.ProductID, cart.ID).
		Preload("Product").
		First(&cartItem).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "購物車沒有此商品",
			})
			return
		} else {
			log.Printf("查詢購物車商品錯誤: %v\n", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"message": "查詢購物車商品錯誤",
			})
			return
		}
	}

	//如果請求的數量大於庫存則更新為庫存數量
	if cartItemReq.Quantity > cartItem.Product.Stock {
		cartItem.Quantity = cartItem.Product.Stock
	} else {
		cartItem.Quantity = cartItemReq.Quantity
	}
	db.Updates(&cartItem)
	c.JSON(http.StatusOK, gin.H{
		"message":   "成功更新購物車物品數量",
		"productID": cartItem.ProductID,
		"quantity":  cartItem.Quantity,
	})
	return
}

// 刪除購物車商品
func DeleteCartItemHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	productID := c.Param("productID")

	//查詢購物車
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "查無此購物車",
			})
			return
		}
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "查詢購物車失敗",
		})
		return
	}

	//刪除購物車商品
	result := db.
		Where("product_id = ? AND cart_id = ?", productID, cart.ID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		log.Printf("刪除購物車商品錯誤: %v\n", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除購物車商品錯誤",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "購物車沒有此商品",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功刪除購物車物品",
		"productID": productID,
	})
	return
}

func GetCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	cart, err := getCartWithItems(db, userID.(uint))
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			//購物車尚未建立，回傳空購物車
			c.JSON(http.StatusOK, gin.H{
				"message":       "成功查詢購物車",
				"cartItemsData": []gin.H{},
			})
			return
		}
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
		})
		return
	}

	cartItemsData := make([]gin.H, 0, len(cart.CartItems))
	for _, cartItem := range cart.CartItems {
		cartItemsData = append(cartItemsData, gin.H{
			"ProductID": cartItem.Product.ID,
			"Name":      cartItem.Product.Name,
			"Price":     cartItem.Product.Price,
			"Image":     firstImageURL(&cartItem.Product),
			"Quantity":  cartItem.Quantity,
			"Stock":     cartItem.Product.Stock,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "成功查詢購物車",
		"cartItemsData": cartItemsData,
	})
}

func ClearCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusOK, gin.H{
				"message": "成功清空購物車",
			})
			return
		}
		log.Printf("查詢購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢購物車失敗",
		})
		return
	}

	err = db.Where("cart_id = ?", &cart.ID).Delete(&models.CartItem{}).Error
	if err != nil {
		log.Printf("清空購物車失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "清空購物車失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功清空購物車",
	})
}
