package server

import (
	"net/http"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req dto.SubscribeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	subscriber, err := s.newsletter.Subscribe(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, subscriber)
}

func (s *Service) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := s.newsletter.Unsubscribe(r.Context(), flow.Param(r.Context(), "token")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) handleListSubscribers(w http.ResponseWriter, r *http.Request) {
	var filter types.SubscriberFilter
	page, err := decodeQuery(r, &filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.newsletter.List(r.Context(), filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleDeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.newsletter.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
