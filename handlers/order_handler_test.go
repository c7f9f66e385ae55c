package handlers

import (
	"MyShop/models"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderRouter(db *gorm.DB, userID uint) *gin.Engine {
	router := gin.New()
	router.Use(stubAuth(userID))
	router.POST("/orders", func(c *gin.Context) {
		CheckoutHandler(c, db)
	})
	router.GET("/orders", func(c *gin.Context) {
		GetOrderListHandler(c, db)
	})
	router.GET("/orders/:orderID", func(c *gin.Context) {
		GetOrderDataHandler(c, db)
	})
	return router
}

func postJSON(router *gin.Engine, path string, body gin.H) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	address := createTestAddress(t, db, user.ID, "No.1 Test Rd.")
	productA := createTestProduct(t, db, "productA", 10.00, 5)
	productB := createTestProduct(t, db, "productB", 5.00, 5)
	addTestCartItem(t, db, user.ID, productA.ID, 2)
	addTestCartItem(t, db, user.ID, productB.ID, 1)

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{"addressID": address.ID})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp struct {
		OrderID     uint    `json:"orderID"`
		TotalAmount float64 `json:"totalAmount"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.InDelta(t, 25.00, resp.TotalAmount, 0.001)

	//訂單和訂單商品都已建立
	var order models.Order
	require.NoError(t, db.Preload("OrderItems").First(&order, "id = ?", resp.OrderID).Error)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.NotNil(t, order.AddressID)
	assert.Equal(t, address.ID, *order.AddressID)
	assert.InDelta(t, 25.00, order.TotalAmount, 0.001)
	assert.Len(t, order.OrderItems, 2)
	assert.Nil(t, order.PaymentID)

	//購物車已清空
	assert.EqualValues(t, 0, countCartItems(t, db, user.ID))
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	address := createTestAddress(t, db, user.ID, "No.1 Test Rd.")

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{"addressID": address.ID})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCheckoutForeignAddress(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	otherAddress := createTestAddress(t, db, other.ID, "No.2 Test Rd.")
	product := createTestProduct(t, db, "productA", 10.00, 5)
	addTestCartItem(t, db, user.ID, product.ID, 1)

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{"addressID": otherAddress.ID})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	//下單失敗時購物車保持原樣
	assert.EqualValues(t, 1, countCartItems(t, db, user.ID))
}

func TestCheckoutMissingAddressID(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	product := createTestProduct(t, db, "productA", 10.00, 5)
	addTestCartItem(t, db, user.ID, product.ID, 1)

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{})
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestOrderItemPriceSnapshot(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	address := createTestAddress(t, db, user.ID, "No.1 Test Rd.")
	product := createTestProduct(t, db, "productA", 10.00, 5)
	addTestCartItem(t, db, user.ID, product.ID, 2)

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{"addressID": address.ID})
	require.Equal(t, http.StatusCreated, recorder.Code)

	//下單後調漲商品價格，已成立的訂單不受影響
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("price", 99.00).Error)

	var orderItem models.OrderItem
	require.NoError(t, db.First(&orderItem, "product_id = ?", product.ID).Error)
	assert.InDelta(t, 10.00, orderItem.UnitPrice, 0.001)

	var order models.Order
	require.NoError(t, db.First(&order, "user_id = ?", user.ID).Error)
	assert.InDelta(t, 20.00, order.TotalAmount, 0.001)
}

func TestGetOrderDataScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	address := createTestAddress(t, db, user.ID, "No.1 Test Rd.")
	product := createTestProduct(t, db, "productA", 10.00, 5)
	addTestCartItem(t, db, user.ID, product.ID, 1)

	router := setupOrderRouter(db, user.ID)
	recorder := postJSON(router, "/orders", gin.H{"addressID": address.ID})
	require.Equal(t, http.StatusCreated, recorder.Code)

	var order models.Order
	require.NoError(t, db.First(&order, "user_id = ?", user.ID).Error)

	//本人可以查詢
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	ownRecorder := httptest.NewRecorder()
	router.ServeHTTP(ownRecorder, req)
	assert.Equal(t, http.StatusOK, ownRecorder.Code)

	//其他使用者查詢同一張訂單得到404
	otherRouter := setupOrderRouter(db, other.ID)
	otherRecorder := httptest.NewRecorder()
	otherRouter.ServeHTTP(otherRecorder, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil))
	assert.Equal(t, http.StatusNotFound, otherRecorder.Code)
}
