package entity

import (
	"errors"
	"fmt"
)

type PetType string

const (
	PetTypeDog    PetType = "Dog"
	PetTypeCat    PetType = "Cat"
	PetTypeBird   PetType = "Bird"
	PetTypeRabbit PetType = "Rabbit"
	PetTypeOther  PetType = "Other"
)

type PetGender string

const (
	PetGenderMale   PetGender = "Male"
	PetGenderFemale PetGender = "Female"
)

type Pet struct {
	Base
	OwnerID  string    `json:"ownerId"`
	Name     string    `json:"name"`
	Type     PetType   `json:"type"`
	Breed    string    `json:"breed"`
	Age      int       `json:"age"`
	Gender   PetGender `json:"gender"`
	Weight   *float64  `json:"weight,omitempty"`
	Notes    string    `json:"notes,omitempty"`
	ImageURL string    `json:"imageUrl,omitempty"`
}

func (p Pet) Validate() error {
	if err := p.Base.validate(); err != nil {
		return err
	}
	if p.OwnerID == "" {
		return errors.New("pet owner is required")
	}
	if p.Name == "" {
		return errors.New("pet name is required")
	}
	switch p.Type {
	case PetTypeDog, PetTypeCat, PetTypeBird, PetTypeRabbit, PetTypeOther:
	default:
		return fmt.Errorf("unknown pet type %q", p.Type)
	}
	switch p.Gender {
	case PetGenderMale, PetGenderFemale:
	default:
		return fmt.Errorf("unknown pet gender %q", p.Gender)
	}
	if p.Age < 0 {
		return errors.New("pet age is negative")
	}
	if p.Weight != nil && *p.Weight < 0 {
		return errors.New("pet weight is negative")
	}
	return nil
}
