package analytics

// Known categories drive display only; any other value is accepted and shown
// with the defaults.
var (
	categoryEmoji = map[string]string{
		"Food":          "🍔",
		"Transport":     "🚌",
		"Shopping":      "🛒",
		"Entertainment": "🎮",
		"Bills":         "💡",
		"Health":        "💊",
		"Other":         "📦",
	}
	categoryColor = map[string]string{
		"Food":          "#FF6384",
		"Transport":     "#36A2EB",
		"Shopping":      "#FFCE56",
		"Entertainment": "#4BC0C0",
		"Bills":         "#9966FF",
		"Health":        "#FF9F40",
		"Other":         "#C9CBCF",
	}
)

const (
	DefaultEmoji = "📦"
	DefaultColor = "#C9CBCF"
)

func KnownCategories() []string {
	return []string{"Food", "Transport", "Shopping", "Entertainment", "Bills", "Health", "Other"}
}

func Emoji(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return DefaultEmoji
}

func Color(category string) string {
	if c, ok := categoryColor[category]; ok {
		return c
	}
	return DefaultColor
}
