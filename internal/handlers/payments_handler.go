package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mahib2121/BoiGhor-Server/internal/checkout"
	"github.com/mahib2121/BoiGhor-Server/internal/validation"
)

func registerPaymentRoutes(r *gin.Engine, d *deps) {
	// POST /payment-checkout-session requests a hosted session and returns
	// its redirect URL
	r.POST("/payment-checkout-session", func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CheckoutSessionRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		url, err := d.reconciler.BeginCheckout(ctx, req.Cost, req.OrderID, req.DisplayName, req.Email)
		if err != nil {
			d.logger.Error("create checkout session", "order_id", req.OrderID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout_session_failed", "msg": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url})
	})

	// PATCH /payment-success?session_id= reconciles a completed session.
	// Safe to replay: the same intent yields the same success.
	r.PATCH("/payment-success", func(c *gin.Context) {
		ctx := c.Request.Context()

		res, err := d.reconciler.Reconcile(ctx, c.Query("session_id"))
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrMissingSession),
				errors.Is(err, checkout.ErrNotCompleted),
				errors.Is(err, checkout.ErrInvalidMetadata),
				errors.Is(err, checkout.ErrOrderNotPayable):
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			default:
				d.logger.Error("reconcile payment", "session_id", c.Query("session_id"), "err", err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "reconciliation failed"})
			}
			return
		}

		message := "Payment recorded successfully"
		if res.AlreadyProcessed {
			message = "Payment already processed"
		}
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   message,
			"paymentId": res.PaymentIntentID,
		})
	})

	// GET /payments?email= lists a payer's payments newest first
	r.GET("/payments", func(c *gin.Context) {
		ctx := c.Request.Context()

		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing_email"})
			return
		}
		list, err := d.payments.ListByEmail(ctx, email)
		if err != nil {
			d.logger.Error("list payments", "email", email, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_payments_failed"})
			return
		}
		c.JSON(http.StatusOK, list)
	})
}
