package users

import "time"

// Roles
const (
	RoleUser      = "user"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleLibrarian || r == RoleAdmin
}

// User represents the item stored in the users DynamoDB table. Email is the
// partition key, which is what enforces its uniqueness.
type User struct {
	Email       string    `dynamodbav:"email" json:"email"` // PK
	UserID      string    `dynamodbav:"user_id" json:"userId"`
	DisplayName string    `dynamodbav:"display_name,omitempty" json:"displayName,omitempty"`
	PhotoURL    string    `dynamodbav:"photo_url,omitempty" json:"photoURL,omitempty"`
	Role        string    `dynamodbav:"role" json:"role"` // user | librarian | admin
	CreatedAt   time.Time `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}
