package server

import (
	"errors"
	"fmt"
	"net/http"

	"blogly/internal/models"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.Store.ListTags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "tags", map[string]any{"Tags": tags})
}

func (s *Server) handleNewTagForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "tag_new", nil)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.Store.CreateTag(r.Context(), r.FormValue("name"))
	if errors.Is(err, models.ErrValidation) {
		s.flash.Add(w, r, "danger", "Please enter a tag name (30 characters max).")
		s.redirect(w, r, "/tags/new")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "success", fmt.Sprintf("The tag %s has been added.", tag.Name))
	s.redirect(w, r, "/tags")
}

func (s *Server) handleTagDetail(w http.ResponseWriter, r *http.Request) {
	s.showTag(w, r, "tag_detail")
}

// Tags cannot be changed yet; the edit page only shows the current values.
func (s *Server) handleEditTagForm(w http.ResponseWriter, r *http.Request) {
	s.showTag(w, r, "tag_edit")
}

func (s *Server) showTag(w http.ResponseWriter, r *http.Request, page string) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tag, err := s.Store.GetTag(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, page, map[string]any{"Tag": tag})
}
