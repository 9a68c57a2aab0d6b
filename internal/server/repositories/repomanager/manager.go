package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studentrecords/internal/dbx"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/courses"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/students"
	"github.com/dmitrijs2005/studentrecords/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Students(db dbx.DBTX) students.Repository
	Courses(db dbx.DBTX) courses.Repository
}
