package enums

import "fmt"

// ArtCategory maps to the art_category enum in Postgres.
type ArtCategory string

const (
	ArtCategoryMusic  ArtCategory = "music"
	ArtCategoryDance  ArtCategory = "dance"
	ArtCategoryYoga   ArtCategory = "yoga"
	ArtCategoryCrafts ArtCategory = "crafts"
)

var validArtCategories = []ArtCategory{
	ArtCategoryMusic,
	ArtCategoryDance,
	ArtCategoryYoga,
	ArtCategoryCrafts,
}

// String implements fmt.Stringer.
func (a ArtCategory) String() string {
	return string(a)
}

// IsValid reports whether the value is a known ArtCategory.
func (a ArtCategory) IsValid() bool {
	for _, candidate := range validArtCategories {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseArtCategory converts raw input into an ArtCategory.
func ParseArtCategory(value string) (ArtCategory, error) {
	for _, candidate := range validArtCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid art category %q", value)
}
