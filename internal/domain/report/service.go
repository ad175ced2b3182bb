package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"caixa/internal/domain/account"
	"caixa/internal/domain/transaction"
)

// aggregationLimit bounds how many transactions feed one report.
const aggregationLimit = 1000

// recentLimit is how many transactions the dashboard lists.
const recentLimit = 5

// ptMonths are the pt-BR short month labels used in chart output.
var ptMonths = [12]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Service computes dashboard metrics and period reports. All money math
// runs on decimals so float artifacts from storage never compound; the
// results convert to float64 only when the response structs are built.
type Service struct {
	accountRepo     account.Repository
	transactionRepo transaction.Repository
	now             func() time.Time
}

// NewService creates a new report service.
func NewService(accountRepo account.Repository, transactionRepo transaction.Repository) *Service {
	return &Service{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		now:             time.Now,
	}
}

// Dashboard aggregates the current month and a six month chart for the
// home screen.
func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	transactions, err := s.transactionRepo.ListByUserID(ctx, userID, aggregationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	totalBalance := decimal.Zero
	for _, acc := range accounts {
		totalBalance = totalBalance.Add(decimal.NewFromFloat(acc.Balance))
	}

	now := s.now()
	currentIncome, currentExpenses := monthTotals(transactions, now.Year(), now.Month())

	recent := transactions
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	d := &Dashboard{
		TotalBalance:       totalBalance.InexactFloat64(),
		MonthlyIncome:      currentIncome.InexactFloat64(),
		MonthlyExpenses:    currentExpenses.InexactFloat64(),
		Accounts:           len(accounts),
		RecentTransactions: recent,
		ChartData:          monthlySeries(transactions, now, 6),
		CategoryData:       expensesByCategory(currentMonthOnly(transactions, now)),
	}
	return d, nil
}

// Report aggregates a 3, 6 or 12 month period. Unknown period values fall
// back to 6 months.
func (s *Service) Report(ctx context.Context, userID int64, period string) (*Report, error) {
	months := 6
	switch period {
	case "3months":
		months = 3
	case "12months":
		months = 12
	}

	transactions, err := s.transactionRepo.ListByUserID(ctx, userID, aggregationLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	now := s.now()
	start := now.AddDate(0, -months, 0)
	var inPeriod []*transaction.Transaction
	for _, tx := range transactions {
		if !tx.Date.Before(start) {
			inPeriod = append(inPeriod, tx)
		}
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	for _, tx := range inPeriod {
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == transaction.TypeIncome {
			totalIncome = totalIncome.Add(amount)
		} else {
			totalExpenses = totalExpenses.Add(amount.Abs())
		}
	}

	r := &Report{
		MonthlyData:  monthlySeries(inPeriod, now, months),
		CategoryData: expensesByCategory(inPeriod),
		Summary: Summary{
			TotalIncome:      totalIncome.InexactFloat64(),
			TotalExpenses:    totalExpenses.InexactFloat64(),
			Balance:          totalIncome.Sub(totalExpenses).InexactFloat64(),
			TransactionCount: len(inPeriod),
		},
	}
	return r, nil
}

func monthTotals(transactions []*transaction.Transaction, year int, month time.Month) (income, expenses decimal.Decimal) {
	income = decimal.Zero
	expenses = decimal.Zero
	for _, tx := range transactions {
		if tx.Date.Year() != year || tx.Date.Month() != month {
			continue
		}
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.Type == transaction.TypeIncome {
			income = income.Add(amount)
		} else {
			expenses = expenses.Add(amount.Abs())
		}
	}
	return income, expenses
}

// monthlySeries builds one point per month, oldest first, ending at now.
func monthlySeries(transactions []*transaction.Transaction, now time.Time, months int) []MonthPoint {
	series := make([]MonthPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		ref := now.AddDate(0, -i, 0)
		income, expenses := monthTotals(transactions, ref.Year(), ref.Month())
		series = append(series, MonthPoint{
			Month:    ptMonths[ref.Month()-1],
			Income:   income.InexactFloat64(),
			Expenses: expenses.InexactFloat64(),
			Balance:  income.Sub(expenses).InexactFloat64(),
		})
	}
	return series
}

func currentMonthOnly(transactions []*transaction.Transaction, now time.Time) []*transaction.Transaction {
	var out []*transaction.Transaction
	for _, tx := range transactions {
		if tx.Date.Year() == now.Year() && tx.Date.Month() == now.Month() {
			out = append(out, tx)
		}
	}
	return out
}

// expensesByCategory totals expense magnitudes per category name, largest
// first. Totals accumulate in decimal and convert once at the end.
func expensesByCategory(transactions []*transaction.Transaction) []CategorySlice {
	totals := map[string]decimal.Decimal{}
	for _, tx := range transactions {
		if tx.Type != transaction.TypeExpense {
			continue
		}
		totals[tx.CategoryName] = totals[tx.CategoryName].Add(decimal.NewFromFloat(tx.Amount).Abs())
	}

	slices := make([]CategorySlice, 0, len(totals))
	for name, value := range totals {
		slices = append(slices, CategorySlice{Name: name, Value: value.InexactFloat64()})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value == slices[j].Value {
			return slices[i].Name < slices[j].Name
		}
		return slices[i].Value > slices[j].Value
	})
	return slices
}
