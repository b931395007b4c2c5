package http

import (
	"time"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
)

// userResponse is the public shape of an account: never the password hash.
type userResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func newUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email}
}

// authResponse is returned by register and login.
type authResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    userResponse `json:"user"`
}

// errorResponse is the envelope for auth and profile failures.
type errorResponse struct {
	Error string `json:"error"`
}

// mappingResponse mirrors the data_mappings row the frontend renders.
type mappingResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Department      string    `json:"department"`
	DataSubjectType string    `json:"dataSubjectType"`
	UserID          int64     `json:"userId"`
	CreatedAt       time.Time `json:"createdAt"`
}

func newMappingResponse(m domain.DataMapping) mappingResponse {
	return mappingResponse{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		Department:      m.Department,
		DataSubjectType: m.DataSubjectType,
		UserID:          m.UserID,
		CreatedAt:       m.CreatedAt,
	}
}

// mappingEnvelope is the {success, ...} envelope used by the mapping routes.
// Data uses omitzero rather than omitempty so an empty list still renders as
// "data": [] while error responses carry no data field at all.
type mappingEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitzero"`
}

func mappingError(message string) mappingEnvelope {
	return mappingEnvelope{Success: false, Message: message}
}
