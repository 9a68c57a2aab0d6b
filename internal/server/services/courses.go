package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/repomanager"
)

// CourseService mirrors StudentService for courses; a duplicate course
// code yields common.ErrorAlreadyExists.
type CourseService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewCourseService(db *sql.DB, m repomanager.RepositoryManager) *CourseService {
	return &CourseService{db: db, repomanager: m}
}

func (s *CourseService) List(ctx context.Context) ([]*models.Course, error) {
	return s.repomanager.Courses(s.db).List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Courses(s.db).Get(ctx, id)
}

func (s *CourseService) Create(ctx context.Context, in models.CourseInput) (*models.Course, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	course := &models.Course{}
	course.Apply(in)

	return s.repomanager.Courses(s.db).Create(ctx, course)
}

func (s *CourseService) Update(ctx context.Context, id string, in models.CourseInput) (*models.Course, error) {
	id, err := parseID(id)
	if err != nil {
		return nil, err
	}
	in = in.Normalize()

	var updated *models.Course
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Courses(tx)

		course, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}

		course.Apply(in)
		if err := course.Input().Validate(); err != nil {
			return err
		}

		updated, err = repo.Update(ctx, course)
		return err
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repomanager.Courses(s.db).Delete(ctx, id)
}
