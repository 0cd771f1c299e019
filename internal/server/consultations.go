package server

import (
	"net/http"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"
)

func (s *Service) handleSubmitConsultation(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitConsultationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	consultation, err := s.consultations.Submit(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, consultation)
}

const consultationTokenHeader = "X-Consultation-Token"

// consultationToken reads the access token handed out on submission from
// the header, falling back to the token query parameter.
func consultationToken(r *http.Request) string {
	if token := r.Header.Get(consultationTokenHeader); token != "" {
		return token
	}
	return r.URL.Query().Get("token")
}

func (s *Service) handleGetPublicConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	consultation, err := s.consultations.GetPublic(r.Context(), id, consultationToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, consultation)
}

func (s *Service) handleListConsultations(w http.ResponseWriter, r *http.Request) {
	var filter types.ConsultationFilter
	page, err := decodeQuery(r, &filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.consultations.List(r.Context(), filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleGetConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	consultation, err := s.consultations.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, consultation)
}

func (s *Service) handlePatchConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.PatchConsultationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	consultation, err := s.consultations.Patch(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, consultation)
}

func (s *Service) handleDeleteConsultation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.consultations.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleAddConsultationResponse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.AddResponseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.ResponderID == nil {
		if admin, ok := adminID(r.Context()); ok {
			req.ResponderID = &admin
		}
	}

	response, err := s.consultations.AddResponse(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, response)
}

func (s *Service) handleDeleteConsultationResponse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	responseID, err := pathID(r, "responseID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.consultations.DeleteResponse(r.Context(), id, responseID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleScheduleFollowup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.ScheduleFollowupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	followup, err := s.consultations.ScheduleFollowup(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, followup)
}

func (s *Service) handleUpdateFollowup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	followupID, err := pathID(r, "followupID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.UpdateFollowupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	followup, err := s.consultations.UpdateFollowup(r.Context(), id, followupID, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, followup)
}

func (s *Service) handleDeleteFollowup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	followupID, err := pathID(r, "followupID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.consultations.DeleteFollowup(r.Context(), id, followupID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
