// Package feedback stores post-order customer ratings.
package feedback

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrInvalidRating is returned for ratings outside the 1-5 range.
var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Feedback is a customer's rating of a completed order.
type Feedback struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"order_id"`
	Rating    int       `json:"rating"`
	Comments  string    `json:"comments,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the rating bounds.
func (f *Feedback) Validate() error {
	if f.Rating < 1 || f.Rating > 5 {
		return ErrInvalidRating
	}
	return nil
}

// Repository persists order feedback.
type Repository interface {
	Create(ctx context.Context, f *Feedback) error
	ListByOrder(ctx context.Context, orderID string) ([]Feedback, error)
}
