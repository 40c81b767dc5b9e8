package repository

// Table name constants used by the hand-written joins.
const (
	tableStories          = "stories"
	tableLoadCases        = "load_cases"
	tableElements         = "elements"
	tableResultCategories = "result_categories"
)
