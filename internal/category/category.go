package category

import "github.com/frahmantamala/spendwise/internal/analytics"

// Category is a display descriptor. Expenses store the category as free
// text, so the list is the known set plus whatever has been recorded.
type Category struct {
	Name  string  `json:"name"`
	Emoji string  `json:"emoji"`
	Color string  `json:"color"`
	Known bool    `json:"known"`
	Total float64 `json:"total"`
}

func NewCategory(name string, known bool) Category {
	return Category{
		Name:  name,
		Emoji: analytics.Emoji(name),
		Color: analytics.Color(name),
		Known: known,
	}
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}
