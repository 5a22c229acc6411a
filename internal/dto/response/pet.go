package response

import (
	"time"

	"petcare-booking/internal/data/entity"
)

type PetResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Breed     string    `json:"breed"`
	Age       int       `json:"age"`
	Gender    string    `json:"gender"`
	Weight    *float64  `json:"weight,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func PetToResponse(p *entity.Pet) PetResponse {
	return PetResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Type:      string(p.Type),
		Breed:     p.Breed,
		Age:       p.Age,
		Gender:    string(p.Gender),
		Weight:    p.Weight,
		Notes:     p.Notes,
		ImageURL:  p.ImageURL,
		CreatedAt: p.CreatedAt,
	}
}
