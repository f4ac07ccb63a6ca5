package models

import "time"

// User is an admin-side account. The storefront never creates users; they
// only back the login endpoint and protected reads.
type User struct {
	ID        string    `bson:"_id,omitempty" json:"_id"`
	Username  string    `bson:"username" json:"username"`
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name,omitempty" json:"name,omitempty"`
	Password  string    `bson:"password" json:"-"`
	Role      string    `bson:"role,omitempty" json:"role,omitempty"`
	IsActive  bool      `bson:"isActive" json:"isActive"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
