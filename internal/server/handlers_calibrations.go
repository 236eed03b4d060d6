package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/parsing"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

const (
	detailNoActiveCalibration = "No calibration set. Submit the calibration form first."
	detailCalibrationNotFound = "Calibration not found."
)

// handleCreateCalibration creates a calibration and makes it active.
func (s *Server) handleCreateCalibration(w http.ResponseWriter, r *http.Request) {
	var create types.CalibrationCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}
	if err := create.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// Job descriptions are often pasted straight from job boards with markup.
	create.JobDescription = parsing.StripHTML(create.JobDescription)

	cal, err := s.store.CreateCalibration(r.Context(), &create)
	if err != nil {
		log.Printf("create calibration: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create calibration.")
		return
	}
	s.jsonResponse(w, http.StatusCreated, cal)
}

// handleGetActiveCalibration returns the calibration scoring currently runs
// against.
func (s *Server) handleGetActiveCalibration(w http.ResponseWriter, r *http.Request) {
	cal, err := s.store.GetActiveCalibration(r.Context())
	if err != nil {
		log.Printf("get active calibration: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load calibration.")
		return
	}
	if cal == nil {
		s.errorResponse(w, http.StatusNotFound, detailNoActiveCalibration)
		return
	}
	s.jsonResponse(w, http.StatusOK, cal)
}

// handleSetActiveCalibration switches the active calibration.
func (s *Server) handleSetActiveCalibration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CalibrationID string `json:"calibration_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}
	id, err := uuid.Parse(req.CalibrationID)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid calibration id.")
		return
	}

	ok, err := s.store.SetActiveCalibration(r.Context(), id)
	if err != nil {
		log.Printf("set active calibration: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to set active calibration.")
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, detailCalibrationNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"active": id.String()})
}

func (s *Server) handleGetCalibration(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid calibration id.")
		return
	}

	cal, err := s.store.GetCalibration(r.Context(), id)
	if err != nil {
		log.Printf("get calibration %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load calibration.")
		return
	}
	if cal == nil {
		s.errorResponse(w, http.StatusNotFound, detailCalibrationNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, cal)
}

// handleUpdateCalibration replaces a calibration's requirements wholesale and
// queues a rescore of its candidates, since stored scores reflect the old
// requirements.
func (s *Server) handleUpdateCalibration(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid calibration id.")
		return
	}

	var create types.CalibrationCreate
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}
	if err := create.Validate(); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	create.JobDescription = parsing.StripHTML(create.JobDescription)

	cal, err := s.store.UpdateCalibration(r.Context(), id, &create)
	if err != nil {
		log.Printf("update calibration %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update calibration.")
		return
	}
	if cal == nil {
		s.errorResponse(w, http.StatusNotFound, detailCalibrationNotFound)
		return
	}

	if queued, err := s.queue.QueueRescore(r.Context(), id); err != nil {
		log.Printf("queue rescore for %s: %v", id, err)
	} else if queued > 0 {
		log.Printf("queued %d candidates for rescoring after calibration update", queued)
	}

	s.jsonResponse(w, http.StatusOK, cal)
}

func (s *Server) handleDeleteCalibration(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid calibration id.")
		return
	}

	ok, err := s.store.DeleteCalibration(r.Context(), id)
	if err != nil {
		log.Printf("delete calibration %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete calibration.")
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, detailCalibrationNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

func (s *Server) handleListCalibrations(w http.ResponseWriter, r *http.Request) {
	cals, err := s.store.ListCalibrations(r.Context())
	if err != nil {
		log.Printf("list calibrations: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list calibrations.")
		return
	}
	if cals == nil {
		cals = []types.Calibration{}
	}
	s.jsonResponse(w, http.StatusOK, cals)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.store.ListTemplates(r.Context())
	if err != nil {
		log.Printf("list templates: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list templates.")
		return
	}
	if templates == nil {
		templates = []types.Calibration{}
	}
	s.jsonResponse(w, http.StatusOK, templates)
}
