package domain

import "time"

// OperatorRole enumerates operator account roles.
type OperatorRole string

const (
	OperatorRoleOperator OperatorRole = "OPERATOR"
	OperatorRoleAdmin    OperatorRole = "ADMIN"
)

// Operator models a worker who handles appeals, with an activity flag and a
// concurrent-load capacity. Administrative updates may race with assignment;
// the routing path uses whatever snapshot it observes.
type Operator struct {
	ID           string
	Name         string
	Email        *string
	PasswordHash *string
	Role         OperatorRole
	IsActive     bool
	MaxLoad      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
