package handlers

import (
	"MyShop/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"log"
	"net/http"
)

// 新增地址
func CreateAddressHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var addressReq struct {
		Line1   string `json:"line1" form:"line1" binding:"required"`
		Line2   string `json:"line2" form:"line2"`
		City    string `json:"city" form:"city"`
		State   string `json:"state" form:"state"`
		ZipCode string `json:"zipCode" form:"zipCode"`
		Country string `json:"country" form:"country"`
	}
	if err := c.ShouldBind(&addressReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	address := models.Address{
		UserID:  userID.(uint),
		Line1:   addressReq.Line1,
		Line2:   addressReq.Line2,
		City:    addressReq.City,
		State:   addressReq.State,
		ZipCode: addressReq.ZipCode,
		Country: addressReq.Country,
	}
	if err := db.Create(&address).Error; err != nil {
		log.Printf("新增地址失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "新增地址失敗",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "成功新增地址",
		"addressID": address.ID,
	})
}

// 查詢地址列表
func GetAddressListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var addresses []models.Address
	err := db.Where("user_id = ?", userID).Find(&addresses).Error
	if err != nil {
		log.Printf("查詢地址列表失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢地址列表失敗",
		})
		return
	}

	addressList := make([]gin.H, 0, len(addresses))
	for _, address := range addresses {
		addressList = append(addressList, gin.H{
			"ID":      address.ID,
			"Line1":   address.Line1,
			"Line2":   address.Line2,
			"City":    address.City,
			"State":   address.State,
			"ZipCode": address.ZipCode,
			"Country": address.Country,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "成功查詢地址列表",
		"addressList": addressList,
	})
}

// 查詢單筆地址，只能查詢自己的地址
func GetAddressHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	addressID := c.Param("addressID")

	var address models.Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
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

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢地址",
		"address": gin.H{
			"ID":      address.ID,
			"Line1":   address.Line1,
			"Line2":   address.Line2,
			"City":    address.City,
			"State":   address.State,
			"ZipCode": address.ZipCode,
			"Country": address.Country,
		},
	})
}

// 修改地址
func UpdateAddressHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	addressID := c.Param("addressID")

	var address models.Address
	err := db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error
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

	var addressReq struct {
		Line1   *string `json:"line1" form:"line1"`
		Line2   *string `json:"line2" form:"line2"`
		City    *string `json:"city" form:"city"`
		State   *string `json:"state" form:"state"`
		ZipCode *string `json:"zipCode" form:"zipCode"`
		Country *string `json:"country" form:"country"`
	}
	if err := c.ShouldBind(&addressReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//如果使用者有提供資料則覆蓋(包含空字串)
	if addressReq.Line1 != nil {
		address.Line1 = *addressReq.Line1
	}
	if addressReq.Line2 != nil {
		address.Line2 = *addressReq.Line2
	}
	if addressReq.City != nil {
		address.City = *addressReq.City
	}
	if addressReq.State != nil {
		address.State = *addressReq.State
	}
	if addressReq.ZipCode != nil {
		address.ZipCode = *addressReq.ZipCode
	}
	if addressReq.Country != nil {
		address.Country = *addressReq.Country
	}

	if err := db.Save(&address).Error; err != nil {
		log.Printf("修改地址失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "修改地址失敗",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改地址",
	})
}

// 刪除地址，已建立的訂單保留地址欄位為空的狀態
func DeleteAddressHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	addressID := c.Param("addressID")

	result := db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if result.Error != nil {
		log.Printf("刪除地址失敗: %v\n", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "刪除地址失敗",
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "查無此地址",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除地址",
	})
}
