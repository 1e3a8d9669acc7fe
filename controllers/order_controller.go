package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/pawsitter-api/config"
	"github.com/kendall-kelly/pawsitter-api/services"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents the request body for creating an order.
// Price defaults to the supplier's current rate.
type CreateOrderRequest struct {
	UserAuth0ID string           `json:"userAuth0Id"`
	SupplierID  uint             `json:"supplierId" binding:"required"`
	OrderDate   time.Time        `json:"orderDate" binding:"required"`
	Price       *decimal.Decimal `json:"price"`
}

// CreateOrder handles POST /order - books a supplier
func CreateOrder(c *gin.Context) {
	auth0ID, ok := currentSubject(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationError(c, err)
		return
	}

	owner, ok := resolveOwner(c, auth0ID, req.UserAuth0ID)
	if !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), services.OrderInput{
		UserAuth0ID: owner,
		SupplierID:  req.SupplierID,
		OrderDate:   req.OrderDate,
		Price:       req.Price,
	})
	if err != nil {
		serviceError(c, entityOrder, err)
		return
	}

	dataResponse(c, http.StatusCreated, order)
}

// ListOrders handles GET /orders/:userAuth0Id - lists a user's live orders
func ListOrders(c *gin.Context) {
	orders, err := services.NewOrderService(config.GetDB()).ListForUser(c.Request.Context(), c.Param("userAuth0Id"))
	if err != nil {
		serviceError(c, entityOrder, err)
		return
	}

	dataResponse(c, http.StatusOK, orders)
}

// CompleteOrder handles PUT /orders/:orderId - marks an order completed
func CompleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Complete(c.Request.Context(), id)
	if err != nil {
		serviceError(c, entityOrder, err)
		return
	}

	dataResponse(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /orders/:orderId - cancels an order
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}

	if err := services.NewOrderService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		serviceError(c, entityOrder, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order successfully deleted",
	})
}
