package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Valid roles. Records with any other role are repaired to RoleUser.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a document in the users collection. PasswordHash is never
// serialized to JSON and is excluded from list queries.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	Auth0ID       string             `bson:"auth0_id"`
	Picture       string             `bson:"picture,omitempty"`
	EmailVerified bool               `bson:"email_verified"`
	Role          string             `bson:"role"`
	PasswordHash  string             `bson:"password_hash,omitempty" json:"-"`
	LastLogin     *time.Time         `bson:"last_login,omitempty"`
	CreatedAt     time.Time          `bson:"created_at"`
}

// LoginProfile holds the identity-provider attributes synced on every login.
type LoginProfile struct {
	Subject       string
	Name          string
	Email         string
	Picture       string
	EmailVerified bool
}

// RoleRepair reports how many records a role normalization touched.
type RoleRepair struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}
