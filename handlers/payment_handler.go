package handlers

import (
	"MyShop/config"
	"MyShop/models"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 生成金流交易編號
func makeTransactionID() string {
	id := uuid.New()
	return "Txn" + hex.EncodeToString(id[:])[:10]
}

// 計算金流簽章，欄位順序和格式是金流服務的固定契約，必須逐位元組一致:
// key|txnid|amount|productinfo|firstname|email|udf1|udf2|<9個空欄位>|salt
func GeneratePaymentHash(merchantKey, txnID, amount, productInfo, firstName, email, udf1, udf2, merchantSalt string) string {
	fields := []string{merchantKey, txnID, amount, productInfo, firstName, email, udf1, udf2}
	for i := 0; i < 9; i++ {
		fields = append(fields, "")
	}
	fields = append(fields, merchantSalt)

	hashSum := sha512.Sum512([]byte(strings.Join(fields, "|")))
	return hex.EncodeToString(hashSum[:])
}

// 建立金流跳轉表單所需的所有欄位，此時不建立訂單，
// 訂單等金流服務回調確認付款後才建立
func InitiatePaymentHandler(c *gin.Context, db *gorm.DB, paymentConfig config.PaymentConfig) {
	userID, ok := c.Get("UserID")
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "無法取得使用者ID",
		})
		return
	}

	var user models.User
	err := db.First(&user, "id = ?", userID).Error
	if err != nil {
		log.Printf("查詢使用者失敗: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "查詢使用者失敗",
		})
		return
	}

	var paymentReq struct {
		AddressID uint `json:"addressID" form:"addressID" binding:"required"`
	}
	if err := c.ShouldBind(&paymentReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "綁定請求資料錯誤",
			"error":   err.Error(),
		})
		return
	}

	//地址必須屬於此使用者
	var address models.Address
	err = db.
		Where("id = ? AND user_id = ?", paymentReq.AddressID, userID).
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

	//金額固定兩位小數
	amount := fmt.Sprintf("%.2f", cartTotal(&cart))
	txnID := makeTransactionID()

	//udf1和udf2會由金流服務原封不動帶回，
	//是回調時對應回使用者和地址的唯一依據
	udf1 := strconv.FormatUint(uint64(user.ID), 10)
	udf2 := strconv.FormatUint(uint64(address.ID), 10)

	hash := GeneratePaymentHash(
		paymentConfig.MerchantKey,
		txnID,
		amount,
		paymentConfig.ProductInfo,
		user.Username,
		user.Email,
		udf1,
		udf2,
		paymentConfig.MerchantSalt,
	)

	c.JSON(http.StatusOK, gin.H{
		"message":     "成功建立付款資料",
		"key":         paymentConfig.MerchantKey,
		"txnid":       txnID,
		"amount":      amount,
		"productinfo": paymentConfig.ProductInfo,
		"firstname":   user.Username,
		"email":       user.Email,
		"udf1":        udf1,
		"udf2":        udf2,
		"phone":       "9999999999",
		"surl":        paymentConfig.SuccessCallbackURL,
		"furl":        paymentConfig.FailureCallbackURL,
		"hash":        hash,
		"action":      paymentConfig.BaseURL,
		"addressID":   address.ID,
	})
}

// 金流付款成功回調，由金流服務以表單POST呼叫，回應一律是跳轉。
// 同一筆交易編號最多只建立一張訂單
func PaymentSuccessHandler(c *gin.Context, db *gorm.DB, paymentConfig config.PaymentConfig) {
	txnID := c.PostForm("txnid")
	udf1 := c.PostForm("udf1")
	udf2 := c.PostForm("udf2")

	//解析不出使用者時不回報錯誤，直接跳轉回首頁
	userID, err := strconv.ParseUint(udf1, 10, 64)
	if err != nil {
		log.Printf("付款回調帶回的udf1不合法: %q\n", udf1)
		c.Redirect(http.StatusFound, paymentConfig.HomeRedirectURL)
		return
	}
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("付款回調查無使用者: %v\n", err)
		c.Redirect(http.StatusFound, paymentConfig.HomeRedirectURL)
		return
	}

	//此交易編號已建立過訂單，視為已處理
	if txnID != "" {
		var existingOrder models.Order
		err := db.Where("payment_id = ?", txnID).First(&existingOrder).Error
		if err == nil {
			c.Redirect(http.StatusFound, paymentConfig.SuccessRedirectURL)
			return
		}
	}

	//購物車已空代表訂單已處理過(例如回調重送)，不重複建立訂單
	cart, err := getCartWithItems(db, user.ID)
	if err != nil || len(cart.CartItems) == 0 {
		c.Redirect(http.StatusFound, paymentConfig.SuccessRedirectURL)
		return
	}

	//以udf2帶回的地址為主，若地址已被刪除則退回此使用者的第一個地址，
	//完全沒有地址時允許訂單地址為空，不能因此讓已付款的訂單消失
	var addressID *uint
	var address models.Address
	parsedAddressID, parseErr := strconv.ParseUint(udf2, 10, 64)
	if parseErr == nil {
		err = db.Where("id = ? AND user_id = ?", parsedAddressID, user.ID).First(&address).Error
	}
	if parseErr != nil || err != nil {
		err = db.Where("user_id = ?", user.ID).Order("id").First(&address).Error
	}
	if err == nil {
		addressID = &address.ID
	}

	var paymentID *string
	if txnID != "" {
		paymentID = &txnID
	}

	tx := db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if tx.Error != nil {
		log.Printf("開啟資料庫事務失敗: %v\n", tx.Error)
		c.Redirect(http.StatusFound, paymentConfig.CartRedirectURL)
		return
	}

	order := models.Order{
		UserID:    user.ID,
		AddressID: addressID,
		Status:    models.OrderStatusPaid,
		PaymentID: paymentID,
	}

	if err := createOrderWithItems(tx, &cart, &order); err != nil {
		tx.Rollback()
		//payment_id唯一鍵衝突代表另一個回調已建立訂單
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.Redirect(http.StatusFound, paymentConfig.SuccessRedirectURL)
			return
		}
		log.Printf("付款回調建立訂單失敗: %v\n", err)
		c.Redirect(http.StatusFound, paymentConfig.CartRedirectURL)
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		log.Printf("付款回調提交事務失敗: %v\n", err)
		c.Redirect(http.StatusFound, paymentConfig.CartRedirectURL)
		return
	}

	c.Redirect(http.StatusFound, paymentConfig.SuccessRedirectURL)
}

// 金流付款失敗回調，不變更任何狀態，購物車保留讓使用者重試
func PaymentFailureHandler(c *gin.Context, paymentConfig config.PaymentConfig) {
	c.Redirect(http.StatusFound, paymentConfig.CartRedirectURL)
}
