package unit

import "time"

// RegisterUserRequest registers or refreshes a user profile
type RegisterUserRequest struct {
	UserID string `json:"userId" validate:"required,min=1,max=128"`
	Name   string `json:"name" validate:"required,min=1,max=64"`
	Gender string `json:"gender" validate:"omitempty,max=32"`
}

// SetFCMTokenRequest stores the device push token
type SetFCMTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// CreateUnitRequest opens a new unit for the given user
type CreateUnitRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// JoinUnitRequest adds the user to an existing unit by join code
type JoinUnitRequest struct {
	UserID string `json:"userId" validate:"required"`
}

// UserResponse is the user profile shape returned to clients
type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Gender string `json:"gender,omitempty"`
	UnitID string `json:"unitId,omitempty"`
}

// UnitResponse is the unit shape returned to clients. The id doubles
// as the join code for the partner.
type UnitResponse struct {
	ID        string    `json:"id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
}
