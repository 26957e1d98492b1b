package models

import "time"

// DefaultImageURL replaces an empty image URL when a user is created.
const DefaultImageURL = "https://i.stack.imgur.com/tekbA.jpg"

const (
	maxNameLen    = 50
	maxTitleLen   = 50
	maxTagNameLen = 30
)

type User struct {
	ID        int64
	FirstName string
	LastName  string
	ImageURL  string
	// Posts is filled by GetUser, oldest first.
	Posts []Post
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

type Post struct {
	ID        int64
	Title     string
	Content   string
	CreatedAt time.Time
	UserID    int64
	// User and Tags are filled by GetPost.
	User *User
	Tags []Tag
}

// FriendlyDate formats CreatedAt for display.
func (p Post) FriendlyDate() string {
	return p.CreatedAt.Format("Mon Jan 2 2006, 3:04 PM")
}

type Tag struct {
	ID   int64
	Name string
	// Posts is filled by GetTag, oldest first.
	Posts []Post
}

// PostTag links a post to a tag. A pair appears at most once.
type PostTag struct {
	PostID int64
	TagID  int64
}
