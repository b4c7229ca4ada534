package clients

import "github.com/google/uuid"

// CreateClientInput carries the validated fields for a new client.
type CreateClientInput struct {
	UserID  uuid.UUID
	Name    string
	Phone   *string
	Address *string
}

// UpdateClientInput carries the validated fields for editing a client.
type UpdateClientInput struct {
	UserID   uuid.UUID
	ClientID uuid.UUID
	Name     string
	Phone    *string
	Address  *string
}
