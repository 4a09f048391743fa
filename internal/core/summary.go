package core

// BreakdownType restricts a category breakdown to one transaction type.
type BreakdownType string

const (
	BreakdownAll     BreakdownType = "all"
	BreakdownIncome  BreakdownType = "income"
	BreakdownExpense BreakdownType = "expense"
)

func (b BreakdownType) Valid() bool {
	switch b {
	case BreakdownAll, BreakdownIncome, BreakdownExpense:
		return true
	}
	return false
}

// Includes reports whether transactions of type t belong in the breakdown.
func (b BreakdownType) Includes(t TransactionType) bool {
	switch b {
	case BreakdownIncome:
		return t == Income
	case BreakdownExpense:
		return t == Expense
	}
	return true
}

// CategoryAmount is one row of a category breakdown.
type CategoryAmount struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Icon         string          `json:"icon,omitempty"`
	Type         TransactionType `json:"type,omitempty"`
	Amount       Money           `json:"amount"`
	Percentage   float64         `json:"percentage"`
	Count        int             `json:"count"`
}

// DashboardSummary aggregates one period bucket.
type DashboardSummary struct {
	Period            TimePeriod       `json:"period"`
	Range             DateRange        `json:"range"`
	TotalIncome       Money            `json:"totalIncome"`
	TotalExpenses     Money            `json:"totalExpenses"`
	NetBalance        Money            `json:"netBalance"`
	BreakdownType     BreakdownType    `json:"breakdownType"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	TransactionCount  int              `json:"transactionCount"`
	IncomeCount       int              `json:"incomeCount"`
	ExpenseCount      int              `json:"expenseCount"`
}

// BalanceTrendPoint is one bucket of a balance series.
type BalanceTrendPoint struct {
	Date             Date  `json:"date"`
	Balance          Money `json:"balance"`
	Income           Money `json:"income"`
	Expense          Money `json:"expense"`
	TransactionCount int   `json:"transactionCount"`
}

// BalanceTrendData is a chronological cumulative balance series.
type BalanceTrendData struct {
	Period           TimePeriod          `json:"period"`
	Range            DateRange           `json:"range"`
	Points           []BalanceTrendPoint `json:"points"`
	StartingBalance  Money               `json:"startingBalance"`
	EndingBalance    Money               `json:"endingBalance"`
	Change           Money               `json:"change"`
	ChangePercentage float64             `json:"changePercentage"`
}
