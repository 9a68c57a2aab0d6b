package courses

import (
	"context"

	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]*models.Course, error)
	Get(ctx context.Context, id string) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (*models.Course, error)
	Update(ctx context.Context, course *models.Course) (*models.Course, error)
	Delete(ctx context.Context, id string) error
}
