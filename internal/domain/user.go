package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role distinguishes user roles. Trainers author exercise content, clients
// consume it, admins additionally approve high-risk publications.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTrainer Role = "trainer"
	RoleClient  Role = "client"
)

// User represents an account in the system.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never exposed via JSON
	Role         Role               `bson:"role" json:"role"`

	// FitnessLevel is the self-assessed level used as the default fitness
	// criterion when requesting recommendations.
	FitnessLevel Difficulty `bson:"fitnessLevel,omitempty" json:"fitnessLevel,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// CanApprove reports whether the role satisfies a required approval role.
// Admins satisfy any requirement; trainers satisfy trainer-level approvals.
func (r Role) CanApprove(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}
