package report

import (
	"caixa/internal/domain/transaction"
)

// MonthPoint is one month of aggregated income and expenses. Expenses are
// reported as positive magnitudes regardless of how the amounts are stored.
// Money fields are plain float64 so they marshal as JSON numbers; the
// arithmetic behind them runs on decimals (see service.go).
type MonthPoint struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// CategorySlice is the expense total of a single category.
type CategorySlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Dashboard is the home screen payload.
type Dashboard struct {
	TotalBalance       float64                    `json:"totalBalance"`
	MonthlyIncome      float64                    `json:"monthlyIncome"`
	MonthlyExpenses    float64                    `json:"monthlyExpenses"`
	Accounts           int                        `json:"accounts"`
	RecentTransactions []*transaction.Transaction `json:"recentTransactions"`
	ChartData          []MonthPoint               `json:"chartData"`
	CategoryData       []CategorySlice            `json:"categoryData"`
}

// Summary totals a reporting period.
type Summary struct {
	TotalIncome      float64 `json:"totalIncome"`
	TotalExpenses    float64 `json:"totalExpenses"`
	Balance          float64 `json:"balance"`
	TransactionCount int     `json:"transactionCount"`
}

// Report is the period report payload.
type Report struct {
	MonthlyData  []MonthPoint    `json:"monthlyData"`
	CategoryData []CategorySlice `json:"categoryData"`
	Summary      Summary         `json:"summary"`
}
