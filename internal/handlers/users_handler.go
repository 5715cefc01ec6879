package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mahib2121/BoiGhor-Server/internal/auth"
	"github.com/mahib2121/BoiGhor-Server/internal/users"
	"github.com/mahib2121/BoiGhor-Server/internal/validation"
)

func registerUserRoutes(r *gin.Engine, d *deps, authed gin.HandlerFunc) {
	// POST /users registers the authenticated identity itself. Registering on
	// behalf of another email is forbidden; re-registering is benign.
	r.POST("/users", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.RegisterUserRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		id, _ := auth.IdentityFrom(c)
		if req.Email != id.Email {
			c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		created, u, err := d.users.CreateIfNotExists(ctx, users.User{
			Email:       req.Email,
			DisplayName: req.DisplayName,
			PhotoURL:    req.PhotoURL,
		})
		if err != nil {
			d.logger.Error("register user", "email", req.Email, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "register_failed"})
			return
		}
		if !created {
			c.JSON(http.StatusOK, gin.H{"success": true, "message": "user already exists"})
			return
		}
		c.JSON(http.StatusCreated, u)
	})

	r.GET("/users/:email", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		u, err := d.users.GetByEmail(ctx, c.Param("email"))
		if err != nil {
			d.logger.Error("get user", "email", c.Param("email"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_user_failed"})
			return
		}
		if u == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		c.JSON(http.StatusOK, u)
	})

	// PATCH /users/:email/role, admin only. The role value is validated
	// before any store write.
	r.PATCH("/users/:email/role", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.UpdateRoleRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		if !requireAdmin(c, d) {
			return
		}

		err := d.users.UpdateRole(ctx, c.Param("email"), req.Role)
		if errors.Is(err, users.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user_not_found"})
			return
		}
		if err != nil {
			d.logger.Error("update role", "email", c.Param("email"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_role_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// DELETE /users/:email, admin only
	r.DELETE("/users/:email", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		if !requireAdmin(c, d) {
			return
		}

		if err := d.users.Delete(ctx, c.Param("email")); err != nil {
			d.logger.Error("delete user", "email", c.Param("email"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_user_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

func requireAdmin(c *gin.Context, d *deps) bool {
	ctx := c.Request.Context()

	id, _ := auth.IdentityFrom(c)
	actor, err := d.guard.Actor(ctx, id.Email)
	if err != nil {
		writeGuardError(c, d, err)
		return false
	}
	if err := d.guard.RequireAdmin(actor); err != nil {
		writeGuardError(c, d, err)
		return false
	}
	return true
}
