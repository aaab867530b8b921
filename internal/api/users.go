package api

import (
	"net/http"

	"github.com/Amdragz/fiya/internal/auth"
)

type createAdminRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password"`
}

type createCustomerRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	SpmID       string `json:"spm_id"`
}

// createdCustomerResponse carries the generated starter password. This
// is the only time it leaves the server; it is never stored in the clear.
type createdCustomerResponse struct {
	*auth.User
	Password string `json:"password"`
}

// handleCreateAdmin registers a new admin account. This is the public
// signup endpoint; customers are created by admins instead.
func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeBadRequest(w, "Name, email and password are required")
		return
	}

	user, err := s.auth.CreateAdmin(r.Context(), auth.NewAdmin{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User created successfully", user)
}

// handleCreateCustomer creates a customer account under the calling
// admin, returning the generated starter password once.
func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}
	if identity.Role != auth.RoleAdmin {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	var req createCustomerRequest
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.SpmID == "" {
		writeBadRequest(w, "Name, email and spm_id are required")
		return
	}

	created, err := s.auth.CreateCustomer(r.Context(), identity.UserID, auth.NewCustomer{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		SpmID:       req.SpmID,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Customer created successfully", createdCustomerResponse{
		User:     created.User,
		Password: created.Password,
	})
}
