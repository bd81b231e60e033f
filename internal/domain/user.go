package domain

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleOperator Role = "OPERATOR"
	// RoleSystem is used internally for automated transitions such as payment
	// confirmation. It is never carried by a user token.
	RoleSystem Role = "SYSTEM"
)

// Actor identifies who is performing an operation, as resolved from the
// identity collaborator.
type Actor struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// SystemActor is the actor attached to automated transitions.
var SystemActor = Actor{UserID: "system", Role: RoleSystem}

func (a Actor) IsOperator() bool {
	return a.Role == RoleOperator
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Role        Role   `json:"role"`
	CreatedOn   string `json:"created_on"`
	UpdatedOn   string `json:"updated_on"`
}
