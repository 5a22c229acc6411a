package entity

import "errors"

type User struct {
	Base
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (u User) Validate() error {
	if err := u.Base.validate(); err != nil {
		return err
	}
	if u.Email == "" {
		return errors.New("user email is required")
	}
	return nil
}

// Identity is the signed-in principal. A nil *Identity means guest.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// GuestPartition is the owner key used when nobody is signed in.
const GuestPartition = "guest"

// PartitionKey returns the owner key records are filed under.
func PartitionKey(id *Identity) string {
	if id == nil || id.UserID == "" {
		return GuestPartition
	}
	return id.UserID
}
