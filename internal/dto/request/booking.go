package request

// CreateBookingRequest is the one-shot booking flow. Field checks happen in
// the draft engine so the messages match the interactive flow.
type CreateBookingRequest struct {
	ServiceIDs []int  `json:"serviceIds"`
	Date       string `json:"date,omitempty"` // 2006-01-02, defaults to today
	Time       string `json:"time,omitempty"` // HH:MM slot label
	Address    string `json:"address"`
	Telephone  string `json:"telephone"`
	Email      string `json:"email"`
	PetID      string `json:"petId,omitempty"`
	Notes      string `json:"notes,omitempty" validate:"max=500"`
}

type SetDateRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
}

type SetTimeRequest struct {
	Time string `json:"time" validate:"required"`
}

type SetAddressRequest struct {
	Address string `json:"address"`
}

type SetTelephoneRequest struct {
	Telephone string `json:"telephone"`
}

type SetEmailRequest struct {
	Email string `json:"email"`
}

// SetPetRequest links the draft to one of the caller's pets. An empty
// petId clears the link.
type SetPetRequest struct {
	PetID string `json:"petId"`
}

type SetNotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}
