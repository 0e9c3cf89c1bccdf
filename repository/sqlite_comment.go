package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emirpasa/kalem/database"
	"github.com/emirpasa/kalem/models"
	"github.com/emirpasa/kalem/pkg"
)

// sqliteCommentRepo, CommentRepository interface'inin SQLite implementasyonu.
type sqliteCommentRepo struct {
	db database.TxQuerier
}

// NewSQLiteCommentRepo, constructor.
func NewSQLiteCommentRepo(db database.TxQuerier) CommentRepository {
	return &sqliteCommentRepo{db: db}
}

func (r *sqliteCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = uuid.NewString()

	query := `
		INSERT INTO comments (id, post_id, author_id, parent_id, depth, content)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID,
		comment.ParentID, comment.Depth, comment.Content,
	).Scan(&comment.CreatedAt, &comment.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *sqliteCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.parent_id, c.depth, c.content,
		       c.created_at, c.updated_at,
		       u.id, u.username, COALESCE(u.display_name, u.username)
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = ?`

	comment := &models.Comment{Author: &models.UserSummary{}}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.ParentID,
		&comment.Depth, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
		&comment.Author.ID, &comment.Author.Username, &comment.Author.DisplayName,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment by id: %w", err)
	}

	return comment, nil
}

func (r *sqliteCommentRepo) GetByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	// Sıralama burada değil service katmanında yapılır; yine de stabil bir
	// okuma sırası (created_at) rows iterasyonunu deterministik tutar.
	query := `
		SELECT c.id, c.post_id, c.author_id, c.parent_id, c.depth, c.content,
		       c.created_at, c.updated_at,
		       u.id, u.username, COALESCE(u.display_name, u.username)
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments by post id: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		c.Author = &models.UserSummary{}
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.ParentID,
			&c.Depth, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&c.Author.ID, &c.Author.Username, &c.Author.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

func (r *sqliteCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments SET content = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, comment.Content, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteCommentRepo) Delete(ctx context.Context, id string) error {
	// parent_id FK değil — çocuk yorumlar silinmez, yetim kalır.
	// Ağaç kurucusu yetim dalları zaten görmezden gelir.
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return pkg.ErrNotFound
	}

	return nil
}

func (r *sqliteCommentRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count comments: %w", err)
	}
	return count, nil
}
