package server

import (
	"errors"
	"fmt"
	"net/http"

	"blogly/internal/models"
)

// tagChoice is one checkbox on the post forms.
type tagChoice struct {
	models.Tag
	Checked bool
}

func tagChoices(all, selected []models.Tag) []tagChoice {
	on := make(map[int64]bool, len(selected))
	for _, t := range selected {
		on[t.ID] = true
	}
	choices := make([]tagChoice, 0, len(all))
	for _, t := range all {
		choices = append(choices, tagChoice{Tag: t, Checked: on[t.ID]})
	}
	return choices
}

func (s *Server) handleNewPostForm(w http.ResponseWriter, r *http.Request) {
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
	tags, err := s.Store.ListTags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post_new", map[string]any{"User": user, "Tags": tagChoices(tags, nil)})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	tagIDs, err := formIDs(r.PostForm["tag"])
	if err != nil {
		http.Error(w, "invalid tag id", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")
	post, err := s.Store.CreatePost(r.Context(), userID, title, r.PostFormValue("content"), tagIDs)
	var ref *models.ReferentialError
	switch {
	case errors.Is(err, models.ErrValidation):
		s.flash.Add(w, r, "danger", "Please make sure to fill all forms.")
		s.redirect(w, r, "/users/"+itoa(userID)+"/posts/new")
		return
	case errors.As(err, &ref) && ref.Entity == "user":
		s.render(w, r, http.StatusNotFound, "not_found", nil)
		return
	case errors.As(err, &ref):
		http.Error(w, ref.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "success", fmt.Sprintf("Your post %s has been submitted.", post.Title))
	s.redirect(w, r, "/users/"+itoa(userID))
}

func (s *Server) handlePostDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	post, err := s.Store.GetPost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post_detail", map[string]any{"Post": post})
}

func (s *Server) handleEditPostForm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	post, err := s.Store.GetPost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	tags, err := s.Store.ListTags(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "post_edit", map[string]any{"Post": post, "Tags": tagChoices(tags, post.Tags)})
}

func (s *Server) handleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	tagIDs, err := formIDs(r.PostForm["tag"])
	if err != nil {
		http.Error(w, "invalid tag id", http.StatusBadRequest)
		return
	}
	_, err = s.Store.UpdatePost(r.Context(), id, r.PostFormValue("title"), r.PostFormValue("content"), tagIDs)
	var ref *models.ReferentialError
	switch {
	case errors.Is(err, models.ErrValidation):
		s.flash.Add(w, r, "danger", "Please make sure to fill all forms.")
		s.redirect(w, r, "/posts/"+itoa(id)+"/edit")
		return
	case errors.As(err, &ref):
		http.Error(w, ref.Error(), http.StatusBadRequest)
		return
	case err != nil:
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "success", "Post has been edited.")
	s.redirect(w, r, "/posts/"+itoa(id))
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	post, err := s.Store.DeletePost(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.flash.Add(w, r, "danger", fmt.Sprintf("%s has been deleted!", post.Title))
	s.redirect(w, r, "/users/"+itoa(post.UserID))
}
