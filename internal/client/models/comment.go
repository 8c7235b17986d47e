package models

// Comment is a single comment on a post. ParentID is empty for top-level
// comments. Tree shaping is left to consumers.
type Comment struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	User      *User  `json:"user,omitempty"`
	Comment   string `json:"comment"`
	ParentID  string `json:"parentId,omitempty"`
	IsEdited  bool   `json:"isEdited,omitempty"`
	IsDeleted bool   `json:"isDeleted,omitempty"`
	CreatedAt string `json:"createdAt"`
}
