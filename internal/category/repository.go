package category

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no category matches the identifier.
var ErrNotFound = errors.New("category not found")

// Repository persists categories.
type Repository interface {
	Create(ctx context.Context, cat Category) error
	Get(ctx context.Context, id string) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, cat Category) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository stores categories in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed category repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a category record.
func (r *PostgresRepository) Create(ctx context.Context, cat Category) error {
	id, err := uuid.Parse(cat.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO categories (id, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)`, id, cat.Name, cat.Description, cat.CreatedAt.UTC(), cat.UpdatedAt.UTC())
	return err
}

// Get fetches a category by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Category, error) {
	catID, err := uuid.Parse(id)
	if err != nil {
		return Category{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at
        FROM categories WHERE id = $1`, catID)
	return scanCategory(row)
}

// List returns all categories ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, description, created_at, updated_at
        FROM categories ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cats := make([]Category, 0)
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// Update replaces the mutable fields of a category.
func (r *PostgresRepository) Update(ctx context.Context, cat Category) error {
	catID, err := uuid.Parse(cat.ID)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE categories SET name = $1, description = $2, updated_at = $3
        WHERE id = $4`, cat.Name, cat.Description, cat.UpdatedAt.UTC(), catID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	catID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, catID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (Category, error) {
	var (
		id                   uuid.UUID
		createdAt, updatedAt time.Time
		cat                  Category
	)
	if err := row.Scan(&id, &cat.Name, &cat.Description, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrNotFound
		}
		return Category{}, err
	}
	cat.ID = id.String()
	cat.CreatedAt = createdAt.UTC()
	cat.UpdatedAt = updatedAt.UTC()
	return cat, nil
}
