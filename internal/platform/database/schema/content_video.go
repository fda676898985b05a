package schema

// ContentVideoTable represents the 'content.video' table
type ContentVideoTable struct {
	Table        string
	ID           string
	OwnerID      string
	Title        string
	Slug         string
	Description  string
	VideoURL     string
	VideoAssetID string
	ThumbURL     string
	ThumbAssetID string
	Duration     string
	ViewCount    string
	IsPublished  string
	PublishedAt  string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// ContentVideo is the schema definition for content.video
var ContentVideo = ContentVideoTable{
	Table:        "content.video",
	ID:           "id",
	OwnerID:      "ownerid",
	Title:        "title",
	Slug:         "slug",
	Description:  "description",
	VideoURL:     "videourl",
	VideoAssetID: "videoassetid",
	ThumbURL:     "thumburl",
	ThumbAssetID: "thumbassetid",
	Duration:     "duration",
	ViewCount:    "viewcount",
	IsPublished:  "ispublished",
	PublishedAt:  "publishedat",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}

// Columns returns all standard column names
func (t ContentVideoTable) Columns() []string {
	return []string{
		t.ID, t.OwnerID, t.Title, t.Slug, t.Description, t.VideoURL,
		t.VideoAssetID, t.ThumbURL, t.ThumbAssetID, t.Duration, t.ViewCount,
		t.IsPublished, t.PublishedAt, t.CreatedAt, t.UpdatedAt, t.DeletedAt,
	}
}
