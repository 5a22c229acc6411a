package response

import (
	"petcare-booking/internal/data/entity"

	"github.com/shopspring/decimal"
)

type ServiceResponse struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Icon  string          `json:"icon,omitempty"`
	Color string          `json:"color,omitempty"`
}

func ServiceToResponse(s entity.Service) ServiceResponse {
	return ServiceResponse{ID: s.ID, Name: s.Name, Price: s.Price, Icon: s.Icon, Color: s.Color}
}

func ServicesToResponse(services []entity.Service) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, ServiceToResponse(s))
	}
	return out
}
