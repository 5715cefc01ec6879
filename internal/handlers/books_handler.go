package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mahib2121/BoiGhor-Server/internal/auth"
	"github.com/mahib2121/BoiGhor-Server/internal/books"
	"github.com/mahib2121/BoiGhor-Server/internal/validation"
)

func registerBookRoutes(r *gin.Engine, d *deps, authed gin.HandlerFunc) {
	// GET /books?trending=true lists the catalogue
	r.GET("/books", func(c *gin.Context) {
		ctx := c.Request.Context()

		list, err := d.books.List(ctx, c.Query("trending") == "true")
		if err != nil {
			d.logger.Error("list books", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list_books_failed"})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/books/:id", func(c *gin.Context) {
		ctx := c.Request.Context()

		b, err := d.books.Get(ctx, c.Param("id"))
		if err != nil {
			d.logger.Error("get book", "book_id", c.Param("id"), "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "get_book_failed"})
			return
		}
		if b == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
			return
		}
		c.JSON(http.StatusOK, b)
	})

	// POST /books creates a book; the actor becomes the owning librarian
	// unless the payload names one.
	r.POST("/books", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		id, _ := auth.IdentityFrom(c)
		actor, err := d.guard.Actor(ctx, id.Email)
		if err != nil {
			writeGuardError(c, d, err)
			return
		}

		var req validation.BookRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}
		if req.LibrarianEmail == "" {
			req.LibrarianEmail = actor.Email
		}

		b, err := d.books.Create(ctx, bookFromRequest(req))
		if err != nil {
			d.logger.Error("create book", "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create_book_failed"})
			return
		}
		c.JSON(http.StatusCreated, b)
	})

	// PUT /books/:id replaces a book; admins and the owning librarian only
	r.PUT("/books/:id", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		b, ok := guardedBook(c, d)
		if !ok {
			return
		}

		var req validation.BookRequest
		if err := validation.BindAndValidate(c, &req, d.validate); err != nil {
			return
		}

		updated := bookFromRequest(req)
		updated.BookID = b.BookID
		updated.CreatedAt = b.CreatedAt
		if updated.LibrarianEmail == "" {
			updated.LibrarianEmail = b.LibrarianEmail
		}

		if err := d.books.Update(ctx, updated); err != nil {
			if errors.Is(err, books.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
				return
			}
			d.logger.Error("update book", "book_id", b.BookID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update_book_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// DELETE /books/:id, same guard as update
	r.DELETE("/books/:id", authed, func(c *gin.Context) {
		ctx := c.Request.Context()

		b, ok := guardedBook(c, d)
		if !ok {
			return
		}

		if err := d.books.Delete(ctx, b.BookID); err != nil {
			d.logger.Error("delete book", "book_id", b.BookID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "delete_book_failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

// guardedBook resolves the actor first (403 before the book is looked up),
// then the target book, then the mutation rule.
func guardedBook(c *gin.Context, d *deps) (*books.Book, bool) {
	ctx := c.Request.Context()

	id, _ := auth.IdentityFrom(c)
	actor, err := d.guard.Actor(ctx, id.Email)
	if err != nil {
		writeGuardError(c, d, err)
		return nil, false
	}

	b, err := d.books.Get(ctx, c.Param("id"))
	if err != nil {
		d.logger.Error("get book", "book_id", c.Param("id"), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get_book_failed"})
		return nil, false
	}
	if b == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "book_not_found"})
		return nil, false
	}

	if err := d.guard.CanMutateBook(actor, b); err != nil {
		writeGuardError(c, d, err)
		return nil, false
	}
	return b, true
}

func writeGuardError(c *gin.Context, d *deps, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		d.logger.Error("authorization check", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authorization_failed"})
	}
}

func bookFromRequest(req validation.BookRequest) books.Book {
	return books.Book{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		CoverImage:     req.CoverImage,
		OldPrice:       req.OldPrice,
		NewPrice:       req.NewPrice,
		Trending:       req.Trending,
		LibrarianEmail: req.LibrarianEmail,
	}
}
