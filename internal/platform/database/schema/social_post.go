package schema

// SocialPostTable represents the 'social.post' table
type SocialPostTable struct {
	Table     string
	ID        string
	UserID    string
	Body      string
	CreatedAt string
	UpdatedAt string
	DeletedAt string
}

// SocialPost is the schema definition for social.post
var SocialPost = SocialPostTable{
	Table:     "social.post",
	ID:        "id",
	UserID:    "userid",
	Body:      "body",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	DeletedAt: "deletedat",
}
