package model

import "time"

// Category is a P.A.R.A. tag: Projects, Areas, Resources or Archives.
type Category string

const (
	CategoryProjects  Category = "projects"
	CategoryAreas     Category = "areas"
	CategoryResources Category = "resources"
	CategoryArchives  Category = "archives"

	DefaultCategory = CategoryResources
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryProjects, CategoryAreas, CategoryResources, CategoryArchives}

// Valid reports whether c is one of the four P.A.R.A. categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryProjects, CategoryAreas, CategoryResources, CategoryArchives:
		return true
	}
	return false
}

// Content is a saved link or note owned by exactly one user.
//
// JSON NAMES:
// The frontend predates this API and expects "content" for the free-text
// body and "paraCategory" for the category, so the tags differ from the Go
// field names on purpose.
type Content struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"userId"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Body      string    `json:"content"`
	Category  Category  `json:"paraCategory"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ContentFilter narrows a list query. Zero values mean "no filter".
type ContentFilter struct {
	Category Category
	Type     string
}

// ContentCounts is the dashboard summary of one user's collection.
type ContentCounts struct {
	Total     int              `json:"total"`
	Para      map[Category]int `json:"para"`
	Platforms map[string]int   `json:"platforms"`
}

// NewContentCounts returns counts with every category present at zero.
func NewContentCounts() *ContentCounts {
	c := &ContentCounts{
		Para:      make(map[Category]int, len(Categories)),
		Platforms: make(map[string]int),
	}
	for _, cat := range Categories {
		c.Para[cat] = 0
	}
	return c
}

// Add tallies n items of the given category and type.
func (c *ContentCounts) Add(cat Category, typ string, n int) {
	c.Total += n
	c.Para[cat] += n
	c.Platforms[typ] += n
}
