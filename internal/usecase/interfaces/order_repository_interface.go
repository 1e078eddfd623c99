package interfaces

import (
	"context"
	"errors"

	"github.com/yankele13-cmyk/gaddoors-sub000/internal/domain/entities"
)

var (
	// ErrOrderAlreadyExists is returned by Create when the id is taken
	// (conditional create failed).
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrVersionConflict is returned by SaveVersioned when the stored version
	// no longer matches the expected one. Callers re-read and reapply.
	ErrVersionConflict = errors.New("order version conflict")
)

// IOrderRepository abstracts DynamoDB persistence for the Order aggregate.
//
// Contract:
//   - the whole aggregate (payments array included) is written atomically
//   - Create is conditional on the id not existing
//   - SaveVersioned is conditional on the stored version matching
//     expectedVersion and persists the order with Version bumped by one
//   - GetByID is strongly consistent; the zero Order means not found

type IOrderRepository interface {
	Create(ctx context.Context, o entities.Order) (entities.Order, error)
	GetByID(ctx context.Context, id string) (entities.Order, error)
	SaveVersioned(ctx context.Context, o entities.Order, expectedVersion int64) (entities.Order, error)
	ListActive(ctx context.Context) ([]entities.Order, error)
}
