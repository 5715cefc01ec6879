package validation

// OrderItem is a single line item in an order request.
type OrderItem struct {
	BookID   string  `json:"bookId" validate:"required"`
	Title    string  `json:"title,omitempty"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"required,gt=0"` // price per unit
}

// CreateOrderRequest is the payload for POST /orders. The total is captured
// verbatim; it is not recomputed from book prices.
type CreateOrderRequest struct {
	UserID      string      `json:"userId" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Phone       string      `json:"phone" validate:"required"`
	Address     string      `json:"address" validate:"required"`
	Items       []OrderItem `json:"items" validate:"required,min=1,dive"`
	TotalAmount float64     `json:"totalAmount" validate:"required,gt=0"`
}

// UpdateOrderStatusRequest is the payload for PATCH /orders/:id.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid cancelled"`
}

// CheckoutSessionRequest is the payload for POST /payment-checkout-session.
type CheckoutSessionRequest struct {
	Cost        float64 `json:"cost" validate:"required,gt=0"`
	OrderID     string  `json:"orderId" validate:"required"`
	DisplayName string  `json:"displayName" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
}

// BookRequest is the payload for POST /books and PUT /books/:id.
type BookRequest struct {
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description,omitempty"`
	Category       string  `json:"category,omitempty"`
	CoverImage     string  `json:"coverImage,omitempty"`
	OldPrice       float64 `json:"oldPrice,omitempty" validate:"omitempty,gt=0"`
	NewPrice       float64 `json:"newPrice" validate:"required,gt=0"`
	Trending       bool    `json:"trending"`
	LibrarianEmail string  `json:"librarianEmail,omitempty" validate:"omitempty,email"`
}

// RegisterUserRequest is the payload for POST /users.
type RegisterUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty" validate:"omitempty,url"`
}

// UpdateRoleRequest is the payload for PATCH /users/:email/role. The oneof
// check runs before any store mutation.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user librarian admin"`
}
