package clients

import "time"

// Client es el dueño de una o más mascotas.
type Client struct {
	ID      string
	Name    string
	Phone   string
	Email   string
	Address string

	CreatedAt time.Time
	UpdatedAt time.Time
}
