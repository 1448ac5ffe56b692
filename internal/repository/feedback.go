package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tiffinlabs/tiffin-pos/internal/domain/feedback"
)

const (
	insertFeedbackSQL = `INSERT INTO order_feedback (order_id, rating, comments)
		VALUES ($1, $2, $3) RETURNING id, created_at`

	listFeedbackByOrderSQL = `SELECT id, order_id, rating, comments, created_at
		FROM order_feedback WHERE order_id = $1 ORDER BY created_at`
)

var _ feedback.Repository = (*FeedbackRepository)(nil)

// FeedbackRepository persists order feedback in PostgreSQL.
type FeedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository returns a FeedbackRepository that uses the given pool.
func NewFeedbackRepository(pool *pgxpool.Pool) *FeedbackRepository {
	return &FeedbackRepository{pool: pool}
}

// Create inserts a feedback row.
func (r *FeedbackRepository) Create(ctx context.Context, f *feedback.Feedback) error {
	err := r.pool.QueryRow(ctx, insertFeedbackSQL, f.OrderID, f.Rating, f.Comments).
		Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating feedback for order %q: %w", f.OrderID, err)
	}
	return nil
}

// ListByOrder returns all feedback left for an order.
func (r *FeedbackRepository) ListByOrder(ctx context.Context, orderID string) ([]feedback.Feedback, error) {
	rows, err := r.pool.Query(ctx, listFeedbackByOrderSQL, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing feedback for order %q: %w", orderID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (feedback.Feedback, error) {
		var f feedback.Feedback
		err := row.Scan(&f.ID, &f.OrderID, &f.Rating, &f.Comments, &f.CreatedAt)
		return f, err
	})
}
