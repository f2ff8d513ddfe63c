package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ministore/store-service/internal/app/store/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"
)

// CategoryRepositoryTestSuite тестовый suite для PostgreSQL repository
type CategoryRepositoryTestSuite struct {
	suite.Suite
	mock  sqlmock.Sqlmock
	repo  CategoryRepository
	sqlDB *sql.DB
}

func TestCategoryRepositorySuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositoryTestSuite))
}

func (s *CategoryRepositoryTestSuite) SetupTest() {
	db, mock, sqlDB := newMockDB(s.T())
	s.mock = mock
	s.sqlDB = sqlDB
	s.repo = NewCategoryRepository(db)
}

func (s *CategoryRepositoryTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.sqlDB.Close()
}

// ===================== Create Tests =====================

func (s *CategoryRepositoryTestSuite) TestCreate_Success() {
	category := &entity.Category{Name: "Electronics", Description: "Gadgets", CreatedAt: time.Now()}

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`INSERT INTO "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Create(context.Background(), category)

	// Assert
	s.NoError(err)
	s.Equal(uint(1), category.ID)
}

// ===================== GetByID Tests =====================

func (s *CategoryRepositoryTestSuite) TestGetByID_Success() {
	createdAt := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
		AddRow(1, "Electronics", "Gadgets", createdAt)

	s.mock.ExpectQuery(`SELECT \* FROM "categories"`).WillReturnRows(rows)

	// Act
	category, err := s.repo.GetByID(context.Background(), 1)

	// Assert
	s.Require().NoError(err)
	s.Equal("Electronics", category.Name)
	s.Equal("Gadgets", category.Description)
}

func (s *CategoryRepositoryTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`SELECT \* FROM "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "created_at"}))

	// Act
	category, err := s.repo.GetByID(context.Background(), 999)

	// Assert
	s.Nil(category)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryRepositoryTestSuite) TestGetByID_DBError() {
	s.mock.ExpectQuery(`SELECT \* FROM "categories"`).WillReturnError(sql.ErrConnDone)

	// Act
	category, err := s.repo.GetByID(context.Background(), 1)

	// Assert
	s.Nil(category)
	s.ErrorIs(err, sql.ErrConnDone)
}

// ===================== GetAll Tests =====================

func (s *CategoryRepositoryTestSuite) TestGetAll_OrderedByID() {
	rows := sqlmock.NewRows([]string{"id", "name", "description", "created_at"}).
		AddRow(1, "Electronics", "", time.Now()).
		AddRow(2, "Books", "", time.Now())

	s.mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY id`).WillReturnRows(rows)

	// Act
	categories, err := s.repo.GetAll(context.Background())

	// Assert
	s.Require().NoError(err)
	s.Len(categories, 2)
	s.Equal("Books", categories[1].Name)
}

// ===================== Update Tests =====================

func (s *CategoryRepositoryTestSuite) TestUpdate_Success() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "categories" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(context.Background(), &entity.Category{ID: 1, Name: "New"})

	// Assert
	s.NoError(err)
}

func (s *CategoryRepositoryTestSuite) TestUpdate_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec(`UPDATE "categories" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(context.Background(), &entity.Category{ID: 999, Name: "New"})

	// Assert
	s.ErrorIs(err, ErrCategoryNotFound)
}

// ===================== Delete Tests =====================

func (s *CategoryRepositoryTestSuite) TestDelete_Success() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(`DELETE FROM "categories"`).WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(context.Background(), 1)

	// Assert
	s.NoError(err)
}

func (s *CategoryRepositoryTestSuite) TestDelete_HasProducts() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Delete(context.Background(), 1)

	// Assert
	s.ErrorIs(err, ErrCategoryHasProducts)
}

func (s *CategoryRepositoryTestSuite) TestDelete_NotFound() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(`DELETE FROM "categories"`).WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Delete(context.Background(), 999)

	// Assert
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *CategoryRepositoryTestSuite) TestDelete_ProductInsertedConcurrently() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT count\(\*\) FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectExec(`DELETE FROM "categories"`).
		WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation})
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Delete(context.Background(), 1)

	// Assert
	s.ErrorIs(err, ErrCategoryHasProducts)
}
