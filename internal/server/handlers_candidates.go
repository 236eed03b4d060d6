package server

import (
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/parsing"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

const detailCandidateNotFound = "Candidate not found."

// maxUploadBytes bounds the total size of one upload request.
const maxUploadBytes = 32 << 20

// resolveCalibration picks the calibration for a candidate request: the
// calibration_id query parameter when present, otherwise the active one. On
// failure it writes the error response and returns nil.
func (s *Server) resolveCalibration(w http.ResponseWriter, r *http.Request) *types.Calibration {
	if raw := r.URL.Query().Get("calibration_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid calibration id.")
			return nil
		}
		cal, err := s.store.GetCalibration(r.Context(), id)
		if err != nil {
			log.Printf("get calibration %s: %v", id, err)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to load calibration.")
			return nil
		}
		if cal == nil {
			s.errorResponse(w, http.StatusNotFound, detailCalibrationNotFound)
			return nil
		}
		return cal
	}

	cal, err := s.store.GetActiveCalibration(r.Context())
	if err != nil {
		log.Printf("get active calibration: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load calibration.")
		return nil
	}
	if cal == nil {
		s.errorResponse(w, http.StatusNotFound, detailNoActiveCalibration)
		return nil
	}
	return cal
}

// handleUpload ingests resume files for a calibration. PDF and plain-text
// files are accepted; anything else, and files that yield no text, are
// reported back as skipped. Accepted candidates are queued for scoring.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid multipart request.")
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.errorResponse(w, http.StatusUnprocessableEntity, "No files uploaded.")
		return
	}

	var (
		profiles []types.CandidateProfile
		skipped  []string
	)
	for _, header := range files {
		text, err := extractResumeText(header)
		if err != nil {
			log.Printf("upload %s: %v", header.Filename, err)
		}
		if strings.TrimSpace(text) == "" {
			skipped = append(skipped, header.Filename)
			continue
		}
		profiles = append(profiles, types.CandidateProfile{
			ID:             uuid.New(),
			CalibrationID:  cal.ID,
			Name:           parsing.NameFromFilename(header.Filename),
			ParsedText:     text,
			SourceFilename: header.Filename,
			Stage:          cal.FirstStage(),
			CreatedAt:      time.Now().UTC(),
		})
	}

	if len(profiles) > 0 {
		if err := s.store.AddCandidates(r.Context(), profiles); err != nil {
			log.Printf("add candidates: %v", err)
			s.errorResponse(w, http.StatusInternalServerError, "Failed to store candidates.")
			return
		}
		for _, p := range profiles {
			s.queue.QueueCandidate(cal.ID, p.ID)
		}
	}

	if skipped == nil {
		skipped = []string{}
	}
	if profiles == nil {
		profiles = []types.CandidateProfile{}
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"added":   profiles,
		"skipped": skipped,
	})
}

func extractResumeText(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return parsing.ExtractTextFromReader(file)
	case strings.HasSuffix(name, ".txt"):
		raw, err := io.ReadAll(file)
		if err != nil {
			return "", err
		}
		return parsing.NormalizeText(string(raw)), nil
	default:
		return "", nil
	}
}

// handleListCandidates returns the ranked candidate list for a calibration.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	candidates, err := s.store.ListRankedCandidates(r.Context(), cal.ID)
	if err != nil {
		log.Printf("list candidates for %s: %v", cal.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list candidates.")
		return
	}
	if candidates == nil {
		candidates = []types.RankedCandidate{}
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

// handleUpdateCandidate updates a candidate's name, pipeline stage or notes.
func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid candidate id.")
		return
	}
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Stage *string `json:"stage"`
		Notes *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid request body.")
		return
	}

	ok, err := s.store.UpdateCandidate(r.Context(), cal.ID, id, req.Name, req.Stage, req.Notes)
	if err != nil {
		log.Printf("update candidate %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to update candidate.")
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, detailCandidateNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"updated": id.String()})
}

func (s *Server) handleDeleteCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid candidate id.")
		return
	}
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	ok, err := s.store.DeleteCandidate(r.Context(), cal.ID, id)
	if err != nil {
		log.Printf("delete candidate %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to delete candidate.")
		return
	}
	if !ok {
		s.errorResponse(w, http.StatusNotFound, detailCandidateNotFound)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"deleted": id.String()})
}

// handleRescoreCandidate queues one candidate for rescoring.
func (s *Server) handleRescoreCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnprocessableEntity, "Invalid candidate id.")
		return
	}
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	profile, err := s.store.GetCandidateProfile(r.Context(), cal.ID, id)
	if err != nil {
		log.Printf("get candidate %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to load candidate.")
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, detailCandidateNotFound)
		return
	}

	queued := s.queue.QueueCandidate(cal.ID, id)
	s.jsonResponse(w, http.StatusAccepted, map[string]any{
		"candidate_id": id.String(),
		"queued":       queued,
	})
}

// handleRescoreAll queues every candidate on the calibration for rescoring.
func (s *Server) handleRescoreAll(w http.ResponseWriter, r *http.Request) {
	cal := s.resolveCalibration(w, r)
	if cal == nil {
		return
	}

	queued, err := s.queue.QueueRescore(r.Context(), cal.ID)
	if err != nil {
		log.Printf("queue rescore for %s: %v", cal.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to queue rescore.")
		return
	}
	s.jsonResponse(w, http.StatusAccepted, map[string]any{"queued": queued})
}
