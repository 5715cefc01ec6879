package books

import "time"

// Book represents the item stored in the books DynamoDB table.
type Book struct {
	BookID         string    `dynamodbav:"book_id" json:"bookId"` // PK
	Title          string    `dynamodbav:"title" json:"title"`
	Description    string    `dynamodbav:"description,omitempty" json:"description,omitempty"`
	Category       string    `dynamodbav:"category,omitempty" json:"category,omitempty"`
	CoverImage     string    `dynamodbav:"cover_image,omitempty" json:"coverImage,omitempty"`
	OldPrice       float64   `dynamodbav:"old_price,omitempty" json:"oldPrice,omitempty"`
	NewPrice       float64   `dynamodbav:"new_price" json:"newPrice"`
	Trending       bool      `dynamodbav:"trending" json:"trending"`
	LibrarianEmail string    `dynamodbav:"librarian_email,omitempty" json:"librarianEmail,omitempty"` // owner
	CreatedAt      time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
