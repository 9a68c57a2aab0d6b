// Package students stores student records in PostgreSQL.
package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studentrecords/internal/common"
	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/server/models"
)

const selectColumns = `id, first_name, last_name, email, age, major, gpa, graduation_year, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (*models.Student, error) {
	s := &models.Student{}
	err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Age, &s.Major, &s.GPA, &s.GraduationYear, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Student, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM students ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Student, error) {
	s, err := scanStudent(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// Create inserts the student. A duplicate email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, s *models.Student) (*models.Student, error) {
	query :=
		`INSERT INTO students (first_name, last_name, email, age, major, gpa, graduation_year)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.FirstName, s.LastName, s.Email, s.Age, s.Major, s.GPA, s.GraduationYear).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

// Update overwrites every mutable column of the record identified by s.ID.
func (r *PostgresRepository) Update(ctx context.Context, s *models.Student) (*models.Student, error) {
	query :=
		`UPDATE students
		 SET first_name = $1, last_name = $2, email = $3, age = $4, major = $5, gpa = $6, graduation_year = $7, updated_at = now()
		 WHERE id = $8
		 RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		s.FirstName, s.LastName, s.Email, s.Age, s.Major, s.GPA, s.GraduationYear, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrorNotFound
		case dbx.IsUniqueViolation(err):
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
