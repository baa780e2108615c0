package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no post matches the identifier.
	ErrNotFound = errors.New("post not found")

	// ErrDuplicateTitle indicates the author already has a post with this title.
	ErrDuplicateTitle = errors.New("post title already used by this author")
)

const uniqueViolation = "23505"

// Repository persists posts and their category links.
type Repository interface {
	Create(ctx context.Context, p Post) error
	Get(ctx context.Context, id string) (Post, error)
	List(ctx context.Context) ([]Post, error)
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id string) error
}

// PostgresRepository stores posts in PostgreSQL with a post_categories join
// table for the category links.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed post repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a post and its category links in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, p Post) error {
	postID, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(p.UserID)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO posts (id, user_id, title, content, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)`,
			postID, userID, p.Title, p.Content, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		if err != nil {
			return err
		}
		return insertCategoryLinks(ctx, tx, postID, p.CategoryIDs)
	})
}

// Get fetches a post with its category links.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Post, error) {
	postID, err := uuid.Parse(id)
	if err != nil {
		return Post{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, title, content, created_at, updated_at
        FROM posts WHERE id = $1`, postID)
	p, err := scanPost(row)
	if err != nil {
		return Post{}, err
	}
	p.CategoryIDs, err = r.categoryLinks(ctx, postID)
	return p, err
}

// List returns all posts ordered by creation time.
func (r *PostgresRepository) List(ctx context.Context) ([]Post, error) {
	rows, err := r.db.Query(ctx, `SELECT id, user_id, title, content, created_at, updated_at
        FROM posts ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		postID, err := uuid.Parse(posts[i].ID)
		if err != nil {
			return nil, err
		}
		if posts[i].CategoryIDs, err = r.categoryLinks(ctx, postID); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// Update replaces a post's fields and rewrites its category links.
func (r *PostgresRepository) Update(ctx context.Context, p Post) error {
	postID, err := uuid.Parse(p.ID)
	if err != nil {
		return ErrNotFound
	}

	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `UPDATE posts SET title = $1, content = $2, updated_at = $3
            WHERE id = $4`, p.Title, p.Content, p.UpdatedAt.UTC(), postID)
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
			return err
		}
		return insertCategoryLinks(ctx, tx, postID, p.CategoryIDs)
	})
}

// Delete removes a post; category links go with it via ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	postID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) categoryLinks(ctx context.Context, postID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT category_id FROM post_categories WHERE post_id = $1`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id.String())
	}
	return ids, rows.Err()
}

func insertCategoryLinks(ctx context.Context, tx pgx.Tx, postID uuid.UUID, categoryIDs []string) error {
	for _, cid := range categoryIDs {
		catID, err := uuid.Parse(cid)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)`, postID, catID); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func scanPost(row pgx.Row) (Post, error) {
	var (
		id, userID           uuid.UUID
		createdAt, updatedAt time.Time
		p                    Post
	)
	if err := row.Scan(&id, &userID, &p.Title, &p.Content, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Post{}, ErrNotFound
		}
		return Post{}, err
	}
	p.ID = id.String()
	p.UserID = userID.String()
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
