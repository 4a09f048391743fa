package core

// UnknownCategoryName labels category ids missing from the registry.
const UnknownCategoryName = "Unknown Category"

type Category struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Icon string          `json:"icon"`
	Type TransactionType `json:"type"`
}

// CategoryRegistry is a read-only lookup of categories by id. It is seeded
// once and never mutated.
type CategoryRegistry struct {
	ordered []Category
	byID    map[string]Category
}

// NewCategoryRegistry builds a registry preserving the given order. Later
// duplicates of an id are ignored.
func NewCategoryRegistry(categories []Category) *CategoryRegistry {
	r := &CategoryRegistry{byID: make(map[string]Category, len(categories))}
	for _, c := range categories {
		if _, ok := r.byID[c.ID]; ok {
			continue
		}
		r.byID[c.ID] = c
		r.ordered = append(r.ordered, c)
	}
	return r
}

// DefaultCategories returns the built-in seed.
func DefaultCategories() []Category {
	return []Category{
		{ID: "salary", Name: "Salary", Icon: "💼", Type: Income},
		{ID: "freelance", Name: "Freelance", Icon: "💻", Type: Income},
		{ID: "investments", Name: "Investments", Icon: "📈", Type: Income},
		{ID: "gifts", Name: "Gifts", Icon: "🎁", Type: Income},
		{ID: "other-income", Name: "Other Income", Icon: "💰", Type: Income},

		{ID: "food", Name: "Food & Dining", Icon: "🍽️", Type: Expense},
		{ID: "transport", Name: "Transportation", Icon: "🚗", Type: Expense},
		{ID: "housing", Name: "Housing", Icon: "🏠", Type: Expense},
		{ID: "utilities", Name: "Utilities", Icon: "💡", Type: Expense},
		{ID: "entertainment", Name: "Entertainment", Icon: "🎬", Type: Expense},
		{ID: "healthcare", Name: "Healthcare", Icon: "🏥", Type: Expense},
		{ID: "shopping", Name: "Shopping", Icon: "🛍️", Type: Expense},
		{ID: "education", Name: "Education", Icon: "📚", Type: Expense},
		{ID: "travel", Name: "Travel", Icon: "✈️", Type: Expense},
		{ID: "other-expense", Name: "Other Expenses", Icon: "📦", Type: Expense},
	}
}

// DefaultRegistry returns a registry seeded with DefaultCategories.
func DefaultRegistry() *CategoryRegistry {
	return NewCategoryRegistry(DefaultCategories())
}

// Lookup returns the category with the given id.
func (r *CategoryRegistry) Lookup(id string) (Category, bool) {
	c, ok := r.byID[id]
	return c, ok
}

// Name returns the display name of id, or UnknownCategoryName.
func (r *CategoryRegistry) Name(id string) string {
	if c, ok := r.byID[id]; ok {
		return c.Name
	}
	return UnknownCategoryName
}

// All returns every category in seed order.
func (r *CategoryRegistry) All() []Category {
	return append([]Category(nil), r.ordered...)
}

// ByType returns the categories usable for transactions of type t.
func (r *CategoryRegistry) ByType(t TransactionType) []Category {
	var out []Category
	for _, c := range r.ordered {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
