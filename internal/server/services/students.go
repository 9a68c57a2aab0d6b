package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
)

// StudentService validates student payloads and forwards them to storage.
// Errors are common.ErrorInvalidID, common.ErrorNotFound,
// common.ErrorAlreadyExists (duplicate email), *models.ValidationError
// or a wrapped storage error.
type StudentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStudentService(db *sql.DB, m repomanager.RepositoryManager) *StudentService {
	return &StudentService{db: db, repomanager: m}
}

func (s *StudentService) List(ctx context.Context) ([]*models.Student, error) {
	return s.repomanager.Students(s.db).List(ctx)
}

func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Students(s.db).Get(ctx, id)
}

func (s *StudentService) Create(ctx context.Context, in models.StudentInput) (*models.Student, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	student := &models.Student{}
	student.Apply(in)

	return s.repomanager.Students(s.db).Create(ctx, student)
}

// Update overlays the supplied fields on the stored record and validates
// the result as a whole before saving it.
func (s *StudentService) Update(ctx context.Context, id string, in models.StudentInput) (*models.Student, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()

	var updated *models.Student
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Students(tx)

		student, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		student.Apply(in)
		if err := student.Input().Validate(); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, student)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *StudentService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repomanager.Students(s.db).Delete(ctx, id)
}

// parseID returns the canonical form of a UUID or common.ErrorInvalidID.
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", common.ErrorInvalidID
	}
	return u.String(), nil
}
