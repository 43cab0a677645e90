package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a registered account. Tokens holds every token issued by
// a login that has not been logged out yet.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	Tokens       []Token       `bson:"tokens"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// Token is an active token held by a user, tagged with its purpose.
type Token struct {
	Access string `bson:"access"`
	Token  string `bson:"token"`
}

// HasToken reports whether token is active for the given purpose.
func (u *User) HasToken(access, token string) bool {
	for _, t := range u.Tokens {
		if t.Access == access && t.Token == token {
			return true
		}
	}

	return false
}
