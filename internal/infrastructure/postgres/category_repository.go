package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"caixa/internal/domain/category"
)

// CategoryRepository implements the category.Repository interface for PostgreSQL
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new PostgreSQL category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// DefaultIDByNameAndType resolves a default category by exact name and type
func (r *CategoryRepository) DefaultIDByNameAndType(ctx context.Context, name, categoryType string) (int64, error) {
	query := `SELECT id FROM categories WHERE name = $1 AND type = $2 AND is_default = true`

	var id int64
	err := r.db.QueryRowContext(ctx, query, name, categoryType).Scan(&id)

	if err == sql.ErrNoRows {
		// Intentionally returns (0, nil) instead of an error
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to resolve default category: %w", err)
	}

	return id, nil
}

// ListForUser retrieves default categories plus the user's own
func (r *CategoryRepository) ListForUser(ctx context.Context, userID int64) ([]*category.Category, error) {
	query := `
		SELECT id, name, type, color, icon, is_default, user_id
		FROM categories
		WHERE is_default = true OR user_id = $1
		ORDER BY type, name
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		var cat category.Category
		var color, icon sql.NullString
		var catUserID sql.NullInt64

		err := rows.Scan(&cat.ID, &cat.Name, &cat.Type, &color, &icon, &cat.IsDefault, &catUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}

		if color.Valid {
			cat.Color = color.String
		}
		if icon.Valid {
			cat.Icon = icon.String
		}
		if catUserID.Valid {
			id := catUserID.Int64
			cat.UserID = &id
		}

		categories = append(categories, &cat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// defaultCategories is the seed set inserted on first start.
var defaultCategories = []struct {
	name  string
	ctype string
	color string
	icon  string
}{
	{"Alimentação", "expense", "#EF4444", "utensils"},
	{"Transporte", "expense", "#F59E0B", "car"},
	{"Moradia", "expense", "#8B5CF6", "home"},
	{"Saúde", "expense", "#10B981", "heart"},
	{"Educação", "expense", "#3B82F6", "book"},
	{"Lazer", "expense", "#F97316", "gamepad-2"},
	{"Compras", "expense", "#EC4899", "shopping-bag"},
	{"Serviços", "expense", "#6B7280", "settings"},
	{"Outros Gastos", "expense", "#9CA3AF", "more-horizontal"},
	{"Salário", "income", "#10B981", "briefcase"},
	{"Freelance", "income", "#059669", "laptop"},
	{"Investimentos", "income", "#0D9488", "trending-up"},
	{"Vendas", "income", "#0891B2", "shopping-cart"},
	{"Outras Receitas", "income", "#6B7280", "plus"},
}

// EnsureDefaults seeds the default categories when none exist yet. The two
// fallback buckets used by bank sync are part of the set, so a freshly
// seeded database can always file imported transactions.
func (r *CategoryRepository) EnsureDefaults(ctx context.Context) error {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories WHERE is_default = true`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count default categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultCategories {
		_, err := r.db.ExecContext(
			ctx,
			`INSERT INTO categories (name, type, color, icon, is_default) VALUES ($1, $2, $3, $4, true) ON CONFLICT DO NOTHING`,
			c.name, c.ctype, c.color, c.icon,
		)
		if err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.name, err)
		}
	}

	return nil
}
