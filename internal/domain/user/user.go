// Package user holds the customer identity consumed by the order lifecycle.
// Authentication itself is an external concern; this package only models the
// account data orders are attributed to.
package user

import (
	"context"
	"time"
)

// Role distinguishes back-office operators from regular customers.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User is a storefront account.
type User struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// Repository defines read operations over user accounts.
type Repository interface {
	List(ctx context.Context) ([]User, error)
}
