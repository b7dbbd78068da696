package domain

import "time"

// TagCategory groups tags for display.
type TagCategory string

// Tag categories.
const (
	CategoryWho   TagCategory = "who"
	CategoryGenre TagCategory = "genre"
	CategoryMood  TagCategory = "mood"
	CategoryMeta  TagCategory = "meta"
)

// Sentiment tag names seeded as global tags.
const (
	TagLoved     = "Loved"
	TagLiked     = "Liked"
	TagDidntLike = "Didn't Like"
)

// IsSentimentTag reports whether name is one of the global sentiment tags.
func IsSentimentTag(name string) bool {
	switch name {
	case TagLoved, TagLiked, TagDidntLike:
		return true
	}
	return false
}

// Tag labels shows. A tag without a household is global: visible to every
// household and never modified or deleted by one.
type Tag struct {
	ID          string      `json:"id"`
	HouseholdID *string     `json:"household_id"`
	Name        string      `json:"name"`
	Color       string      `json:"color"`
	Category    TagCategory `json:"category"`
	CreatedAt   time.Time   `json:"created_at"`
}

// IsGlobal reports whether the tag is shared by all households.
func (t *Tag) IsGlobal() bool {
	return t.HouseholdID == nil
}

// VisibleTo reports whether a household may use the tag.
func (t *Tag) VisibleTo(householdID string) bool {
	return t.IsGlobal() || *t.HouseholdID == householdID
}

// TagUpdate carries the mutable fields of a tag. Nil fields are left unchanged.
type TagUpdate struct {
	Name     *string
	Color    *string
	Category *TagCategory
}

// IsEmpty reports whether the update changes nothing.
func (u TagUpdate) IsEmpty() bool {
	return u.Name == nil && u.Color == nil && u.Category == nil
}
