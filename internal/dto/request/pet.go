package request

type CreatePetRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Type     string   `json:"type" validate:"required,oneof=Dog Cat Bird Rabbit Other"`
	Breed    string   `json:"breed" validate:"required,max=100"`
	Age      *int     `json:"age" validate:"required,gte=0,max=100"`
	Gender   string   `json:"gender" validate:"required,oneof=Male Female"`
	Weight   *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Notes    string   `json:"notes,omitempty" validate:"omitempty,max=1000"`
	Image    string   `json:"image,omitempty"` // data:image/...;base64,...
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
}
