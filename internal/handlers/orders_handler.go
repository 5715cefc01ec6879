package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mahib2121/BoiGhor-Server/internal/orders"
	"github.com/mahib2121/BoiGhor-Server/internal/validation"
)

func registerOrderRoutes(r *gin.Engine, d *deps, authed gin.HandlerFunc) {
	// GET /orders?email= lists all orders, or one customer's orders newest first
	r.GET("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var (
			list []orders.Order
			err  error
		)
		if email := c.Query("email"); email != "" {
			list, err = d.orders.ListByEmail(ctx, email)
		} else {
			list, err = d.orders.List(ctx)
		}
		if err != nil {
			d.logger.Error("list orders", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_orders_failed"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	// POST /orders creates a pending, unpaid order. Items and total are
	// captured verbatim from the request.
	r.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		items := make([]orders.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.LineItem{
				BookID:   it.BookID,
				Title:    it.Title,
				Quantity: it.Quantity,
				Price:    it.Price,
			})
		}

		order, err := d.orders.Create(ctx, orders.Order{
			OrderID:     uuid.NewString(),
			UserID:      req.UserID,
			Name:        req.Name,
			Email:       req.Email,
			Phone:       req.Phone,
			Address:     req.Address,
			Items:       items,
			TotalAmount: req.TotalAmount,
		})
		if err != nil {
			d.logger.Error("create order", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_order_failed"})
			return
		}
		c.JSON(http.StatusCreated, order)
	})

	// PATCH /orders/:id sets the status to the caller-supplied value. The
	// value is validated; the transition is deliberately not.
	r.PATCH("/orders/:id", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.UpdateOrderStatusRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		err := d.orders.UpdateStatus(ctx, c.Param("id"), req.Status)
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
			return
		}
		if err != nil {
			d.logger.Error("update order status", "order_id", c.Param("id"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_status_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// PATCH /orders/:id/cancel cancels an unpaid order
	r.PATCH("/orders/:id/cancel", func(c *gin.Context) {
		ctx := c.Request.Context()

		err := d.orders.Cancel(ctx, c.Param("id"))
		switch {
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found"})
		case errors.Is(err, orders.ErrOrderPaid):
			c.JSON(http.StatusBadRequest, gin.H{"error": orders.ErrOrderPaid.Error()})
		case err != nil:
			d.logger.Error("cancel order", "order_id", c.Param("id"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cancel_failed"})
		default:
			c.JSON(http.StatusOK, gin.H{"success": true})
		}
	})
}
