package server

import (
	"errors"
	"fmt"
	"net/http"

	"blogly/internal/models"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.redirect(w, r, "/users")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Store.ListUsers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "users", map[string]any{"Users": users})
}

func (s *Server) handleNewUserForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "user_new", nil)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.Store.CreateUser(r.Context(), r.FormValue("first-name"), r.FormValue("last-name"), r.FormValue("image-url"))
	if errors.Is(err, models.ErrValidation) {
		s.flash.Add(w, r, "danger", "Please fill in first and last name (50 characters max).")
		s.redirect(w, r, "/users/new")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "success", fmt.Sprintf("%s has been added!", user.FullName()))
	s.redirect(w, r, "/users")
}

func (s *Server) handleUserDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.Store.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "user_detail", map[string]any{"User": user})
}

func (s *Server) handleEditUserForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.Store.GetUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "user_edit", map[string]any{"User": user})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.Store.UpdateUser(r.Context(), id, r.FormValue("first-name"), r.FormValue("last-name"), r.FormValue("image-url"))
	if errors.Is(err, models.ErrValidation) {
		s.flash.Add(w, r, "danger", "Please fill in first and last name (50 characters max).")
		s.redirect(w, r, "/users/"+itoa(id)+"/edit")
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "success", fmt.Sprintf("%s has been edited!", user.FullName()))
	s.redirect(w, r, "/users")
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	user, err := s.Store.DeleteUser(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "danger", fmt.Sprintf("%s has been deleted!", user.FullName()))
	s.redirect(w, r, "/users")
}
