package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Amdragz/fiya/internal/cage"
)

// handleCreateCage provisions a cage and its device credential for the
// calling user. The response includes the device secret exactly once.
func (s *Server) handleCreateCage(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeUnauthorized(w, "Unauthorized")
		return
	}

	var req cage.NewCage
	if err := decodeBody(r, &req); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}
	if req.CageID == "" || req.AssignedMonitor == "" {
		writeBadRequest(w, "cage_id and assigned_monitor are required")
		return
	}

	provisioned, err := s.cages.Provision(r.Context(), identity.UserID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "Cage created successfully", provisioned)
}

// handleListCagesByMonitor returns all cages assigned to a monitor id.
func (s *Server) handleListCagesByMonitor(w http.ResponseWriter, r *http.Request) {
	assignedMonitor := chi.URLParam(r, "assigned_monitor")
	if assignedMonitor == "" {
		writeBadRequest(w, "assigned_monitor is required")
		return
	}

	cages, err := s.cages.ListByMonitor(r.Context(), assignedMonitor)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Cages retrieved successfully", cages)
}

// handleUpdateCageReadings accepts a sensor update from monitoring
// hardware. The device authenticates with its provisioning secret in
// the Authorization header; a missing or wrong secret is rejected
// without revealing whether the cage exists.
func (s *Server) handleUpdateCageReadings(w http.ResponseWriter, r *http.Request) {
	cageID := chi.URLParam(r, "cage_id")

	secret, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	var readings cage.Readings
	if err := decodeBody(r, &readings); err != nil {
		writeBadRequest(w, "Invalid request body")
		return
	}

	if err := s.cages.UpdateReadings(r.Context(), cageID, secret, &readings); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Cage updated successfully", nil)
}
