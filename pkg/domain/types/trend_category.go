package types

// TrendCategory classifies where a trend came from and what it is about.
// Scrapers report arbitrary category strings; everything unknown maps to
// TrendCategoryGeneral at the boundary.
type TrendCategory string

const (
	TrendCategoryTech    TrendCategory = "tech"
	TrendCategoryCrypto  TrendCategory = "crypto"
	TrendCategoryAI      TrendCategory = "ai"
	TrendCategoryMeme    TrendCategory = "meme"
	TrendCategoryViral   TrendCategory = "viral"
	TrendCategoryGeneral TrendCategory = "general"
)

// AllTrendCategories returns all valid trend categories
func AllTrendCategories() []TrendCategory {
	return []TrendCategory{
		TrendCategoryTech,
		TrendCategoryCrypto,
		TrendCategoryAI,
		TrendCategoryMeme,
		TrendCategoryViral,
		TrendCategoryGeneral,
	}
}

// IsValid checks if the trend category is valid
func (c TrendCategory) IsValid() bool {
	switch c {
	case TrendCategoryTech, TrendCategoryCrypto, TrendCategoryAI,
		TrendCategoryMeme, TrendCategoryViral, TrendCategoryGeneral:
		return true
	default:
		return false
	}
}

// Normalize maps unknown categories to TrendCategoryGeneral
func (c TrendCategory) Normalize() TrendCategory {
	if !c.IsValid() {
		return TrendCategoryGeneral
	}
	return c
}

// IsTechnical reports whether the category suits video content
// (tech, crypto and AI trends get the video treatment)
func (c TrendCategory) IsTechnical() bool {
	switch c {
	case TrendCategoryTech, TrendCategoryCrypto, TrendCategoryAI:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trend category
func (c TrendCategory) String() string {
	return string(c)
}
