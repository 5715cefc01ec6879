package validation

import "testing"

func TestCreateOrderRequest(t *testing.T) {
	v := New()

	valid := CreateOrderRequest{
		UserID:      "uid-1",
		Name:        "Reader",
		Email:       "reader@example.com",
		Phone:       "0123456789",
		Address:     "42 Library Lane",
		Items:       []OrderItem{{BookID: "book-1", Quantity: 1, Price: 25}},
		TotalAmount: 25,
	}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("valid order rejected: %v", err)
	}

	noItems := valid
	noItems.Items = nil
	if err := v.Struct(noItems); err == nil {
		t.Fatalf("order without items accepted")
	}

	badItem := valid
	badItem.Items = []OrderItem{{BookID: "book-1", Quantity: 0, Price: 25}}
	if err := v.Struct(badItem); err == nil {
		t.Fatalf("zero-quantity item accepted")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := v.Struct(badEmail); err == nil {
		t.Fatalf("bad email accepted")
	}

	zeroTotal := valid
	zeroTotal.TotalAmount = 0
	if err := v.Struct(zeroTotal); err == nil {
		t.Fatalf("zero total accepted")
	}
}

func TestUpdateOrderStatusRequest(t *testing.T) {
	v := New()

	for _, status := range []string{"pending", "paid", "cancelled"} {
		if err := v.Struct(UpdateOrderStatusRequest{Status: status}); err != nil {
			t.Fatalf("status %q rejected: %v", status, err)
		}
	}
	for _, status := range []string{"", "shipped", "PAID"} {
		if err := v.Struct(UpdateOrderStatusRequest{Status: status}); err == nil {
			t.Fatalf("status %q accepted", status)
		}
	}
}

func TestUpdateRoleRequest(t *testing.T) {
	v := New()

	if err := v.Struct(UpdateRoleRequest{Role: "librarian"}); err != nil {
		t.Fatalf("valid role rejected: %v", err)
	}
	if err := v.Struct(UpdateRoleRequest{Role: "owner"}); err == nil {
		t.Fatalf("unknown role accepted")
	}
}

func TestBookRequestPriceRule(t *testing.T) {
	v := New()

	// discounted book: old price above the selling price
	if err := v.Struct(BookRequest{Title: "Go", OldPrice: 49.99, NewPrice: 39.99}); err != nil {
		t.Fatalf("discounted book rejected: %v", err)
	}

	// no old price at all is fine
	if err := v.Struct(BookRequest{Title: "Go", NewPrice: 39.99}); err != nil {
		t.Fatalf("book without old price rejected: %v", err)
	}

	// old price below the selling price is a data entry mistake
	if err := v.Struct(BookRequest{Title: "Go", OldPrice: 9.99, NewPrice: 39.99}); err == nil {
		t.Fatalf("inverted prices accepted")
	}

	if err := v.Struct(BookRequest{Title: "Go"}); err == nil {
		t.Fatalf("missing selling price accepted")
	}
}

func TestCheckoutSessionRequest(t *testing.T) {
	v := New()

	valid := CheckoutSessionRequest{
		Cost:        19.999,
		OrderID:     "order-1",
		DisplayName: "Reader",
		Email:       "reader@example.com",
	}
	if err := v.Struct(valid); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	noOrder := valid
	noOrder.OrderID = ""
	if err := v.Struct(noOrder); err == nil {
		t.Fatalf("missing order id accepted")
	}

	freeCheckout := valid
	freeCheckout.Cost = 0
	if err := v.Struct(freeCheckout); err == nil {
		t.Fatalf("zero cost accepted")
	}
}
