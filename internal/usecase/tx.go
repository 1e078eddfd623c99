package usecase

import (
	"context"
	"errors"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
	"github.com/yankele13-cmyk/gaddoors-sub000/internal/usecase/interfaces"
)

// maxWriteAttempts bounds the optimistic-concurrency retry loop.
const maxWriteAttempts = 3

// ErrWriteConflict is surfaced after the retry budget is exhausted. It is
// transient: the caller may retry the whole operation.
var ErrWriteConflict = errors.New("order write conflict")

// applyVersioned runs one atomic read-modify-write against a single order:
// read the latest document, let mutate rework it, write it back conditional
// on the version read. On a version conflict the document is re-read and
// mutate reapplied against the fresh state, never blindly overwritten, so two
// concurrent payments both land.
func applyVersioned(ctx context.Context, repo interfaces.IOrderRepository, orderID string, mutate func(o *entities.Order) error) (entities.Order, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		o, err := repo.GetByID(ctx, orderID)
		if err != nil {
			return entities.Order{}, err
		}
		if o.ID == "" || o.Deleted {
			return entities.Order{}, ErrOrderNotFound
		}

		if err := mutate(&o); err != nil {
			return entities.Order{}, err
		}

		saved, err := repo.SaveVersioned(ctx, o, o.Version)
		if err != nil {
			if errors.Is(err, interfaces.ErrVersionConflict) {
				continue
			}
			return entities.Order{}, err
		}
		return saved, nil
	}
	return entities.Order{}, ErrWriteConflict
}
