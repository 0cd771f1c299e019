package server

import (
	"net/http"

	"sharehope/pkg/dto"
	"sharehope/pkg/types"

	"github.com/alexedwards/flow"
)

func (s *Service) handleListCategories(w http.ResponseWriter, r *http.Request) {
	var filter types.CategoryFilter
	page, err := decodeQuery(r, &filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.categories.List(r.Context(), filter, page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Service) handleCategoryTree(w http.ResponseWriter, r *http.Request) {
	var filter types.CategoryFilter
	if _, err := decodeQuery(r, &filter); err != nil {
		s.writeError(w, r, err)
		return
	}

	active := true
	filter.Active = &active

	tree, err := s.categories.Tree(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, tree)
}

func (s *Service) handleGetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := s.categories.GetBySlug(r.Context(), flow.Param(r.Context(), "slug"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, category)
}

func (s *Service) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := s.categories.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, category)
}

func (s *Service) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := s.categories.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, category)
}

func (s *Service) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req dto.UpdateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	category, err := s.categories.Update(r.Context(), id, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, category)
}

func (s *Service) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
