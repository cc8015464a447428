package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/techrefresher/backend/internal/domain/inventory"
	"github.com/techrefresher/backend/internal/domain/shared"
)

// newMockPartRepository creates a GormPartRepository with a mocked SQL connection
func newMockPartRepository(t *testing.T) (*GormPartRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormPartRepository(gormDB), mock, mockDB
}

func createTestPart(t *testing.T, groupID uuid.UUID) *inventory.Part {
	t.Helper()

	part, err := inventory.NewPart(groupID, "Apple", "iPhone 12", "Screen", "Black")
	require.NoError(t, err)
	return part
}

func TestGormPartRepository_FindByID(t *testing.T) {
	t.Run("finds existing part", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		partID := uuid.New()
		groupID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "group_id", "slug", "brand", "model", "part_name", "quantity", "total_value", "version"}).
			AddRow(partID, groupID, "apple-iphone-12-screen-black", "Apple", "iPhone 12", "Screen", 3, decimal.NewFromInt(45), 1)

		mock.ExpectQuery(`SELECT \* FROM "parts" WHERE group_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(groupID, partID, 1).
			WillReturnRows(rows)

		part, err := repo.FindByID(context.Background(), groupID, partID)

		assert.NoError(t, err)
		assert.NotNil(t, part)
		assert.Equal(t, partID, part.ID)
		assert.Equal(t, int64(3), part.Quantity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns error for non-existent part", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "parts" WHERE group_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		part, err := repo.FindByID(context.Background(), uuid.New(), uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
		assert.Nil(t, part)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_FindBySlug(t *testing.T) {
	t.Run("finds part by slug within group", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		slug := "apple-iphone-12-screen-black"

		rows := sqlmock.NewRows([]string{"id", "group_id", "slug", "brand", "model", "part_name", "quantity", "total_value", "version"}).
			AddRow(uuid.New(), groupID, slug, "Apple", "iPhone 12", "Screen", 2, decimal.NewFromInt(30), 1)

		mock.ExpectQuery(`SELECT \* FROM "parts" WHERE group_id = \$1 AND slug = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(groupID, slug, 1).
			WillReturnRows(rows)

		part, err := repo.FindBySlug(context.Background(), groupID, slug)

		assert.NoError(t, err)
		assert.NotNil(t, part)
		assert.Equal(t, slug, part.Slug)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for unknown slug", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "parts" WHERE group_id = \$1 AND slug = \$2 ORDER BY .* LIMIT .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		part, err := repo.FindBySlug(context.Background(), uuid.New(), "no-such-part")

		assert.Equal(t, shared.ErrNotFound, err)
		assert.Nil(t, part)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_SaveWithLock(t *testing.T) {
	t.Run("saves with matching version", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		part := createTestPart(t, uuid.New())
		part.Version = 1

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "version" FROM "parts" WHERE group_id = \$1 AND id = \$2`).
			WithArgs(part.GroupID, part.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
		mock.ExpectExec(`UPDATE "parts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.SaveWithLock(context.Background(), part)

		assert.NoError(t, err)
		assert.Equal(t, 2, part.Version)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fails on concurrent modification", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		part := createTestPart(t, uuid.New())
		part.Version = 1

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT "version" FROM "parts" WHERE group_id = \$1 AND id = \$2`).
			WithArgs(part.GroupID, part.ID).
			WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(3))
		mock.ExpectRollback()

		err := repo.SaveWithLock(context.Background(), part)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "modified by another user")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_Delete(t *testing.T) {
	t.Run("deletes existing part", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		partID := uuid.New()

		mock.ExpectExec(`DELETE FROM "parts" WHERE group_id = \$1 AND id = \$2`).
			WithArgs(groupID, partID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Delete(context.Background(), groupID, partID)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		mock.ExpectExec(`DELETE FROM "parts" WHERE group_id = \$1 AND id = \$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), uuid.New(), uuid.New())

		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_Count(t *testing.T) {
	t.Run("counts parts with stock filter", func(t *testing.T) {
		repo, mock, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		groupID := uuid.New()
		filter := shared.Filter{Filters: map[string]interface{}{"in_stock": true}}

		mock.ExpectQuery(`SELECT count\(\*\) FROM "parts" WHERE group_id = \$1 AND quantity > 0`).
			WithArgs(groupID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

		count, err := repo.Count(context.Background(), groupID, filter)

		assert.NoError(t, err)
		assert.Equal(t, int64(8), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormPartRepository_InterfaceCompliance(t *testing.T) {
	t.Run("implements PartRepository interface", func(t *testing.T) {
		repo, _, mockDB := newMockPartRepository(t)
		defer mockDB.Close()

		var _ inventory.PartRepository = repo
	})
}
