package metrics

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

func newPluginDB(t *testing.T, service string) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Use(NewGormPlugin(service)))

	return db, mock
}

func TestGormPlugin_ObservesQueryDuration(t *testing.T) {
	// Arrange
	db, mock := newPluginDB(t, "gorm-ok")
	mock.ExpectQuery(`SELECT \* FROM "widgets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "bolt"))

	// Act
	var items []widget
	err := db.Find(&items).Error

	// Assert
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(DbQueryDuration, "db_query_duration_seconds"), 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(DbErrors.WithLabelValues("gorm-ok", string(DbOpQuery))))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPlugin_CountsErrors(t *testing.T) {
	// Arrange
	db, mock := newPluginDB(t, "gorm-err")
	mock.ExpectQuery(`SELECT \* FROM "widgets"`).WillReturnError(errors.New("connection reset"))

	// Act
	var items []widget
	err := db.Find(&items).Error

	// Assert
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(DbErrors.WithLabelValues("gorm-err", string(DbOpQuery))))
}

func TestGormPlugin_IgnoresRecordNotFound(t *testing.T) {
	// Arrange
	db, mock := newPluginDB(t, "gorm-notfound")
	mock.ExpectQuery(`SELECT \* FROM "widgets"`).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	// Act
	var item widget
	err := db.First(&item, 42).Error

	// Assert
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Equal(t, 0.0, testutil.ToFloat64(DbErrors.WithLabelValues("gorm-notfound", string(DbOpQuery))))
}
