package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"document-approval-server/config"
	"document-approval-server/internal/model"
	"document-approval-server/internal/repository"
	"document-approval-server/internal/util"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDatabase(t *testing.T) (*config.Database, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &config.Database{DB: sqlx.NewDb(db, "postgres")}, mock
}

var documentRowColumns = []string{"uuid", "title", "description", "document_type", "file_url", "version", "status", "owner_uuid", "created_at"}

func TestDocumentRepository_GetByUUID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := repository.NewDocumentRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM documents WHERE uuid = $1`)).
			WithArgs("doc-1").
			WillReturnRows(sqlmock.NewRows(documentRowColumns).
				AddRow("doc-1", "Договор", nil, "contract", "files/a.pdf", 1, "ACTIVE", "user-1", created))

		doc, err := repo.GetByUUID(ctx, database.DB, "doc-1")

		require.NoError(t, err)
		assert.Equal(t, "Договор", doc.Title)
		assert.Nil(t, doc.Description)
		assert.Equal(t, model.DocumentActive, doc.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := repository.NewDocumentRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM documents WHERE uuid = $1`)).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(documentRowColumns))

		doc, err := repo.GetByUUID(ctx, database.DB, "missing")

		assert.Nil(t, doc)
		assert.ErrorIs(t, err, util.ErrNotFound)
	})
}

func TestDocumentRepository_CompareAndSetStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		affected    int64
		expectError error
	}{
		{name: "status matched", affected: 1},
		{name: "status changed concurrently", affected: 0, expectError: util.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database, mock := newMockDatabase(t)
			repo := repository.NewDocumentRepository(database)

			mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET status = $1 WHERE uuid = $2 AND status = $3`)).
				WithArgs(model.DocumentPendingDelete, "doc-1", model.DocumentActive).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			err := repo.CompareAndSetStatus(ctx, database.DB, "doc-1", model.DocumentActive, model.DocumentPendingDelete)

			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDocumentRepository_AdoptFile(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectExec(regexp.QuoteMeta(`SET file_url = $1, version = version + 1, status = $2`)).
		WithArgs("files/new.pdf", model.DocumentActive, "doc-1", model.DocumentPendingReplace).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.AdoptFile(context.Background(), database.DB, "doc-1", model.DocumentPendingReplace, "files/new.pdf")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_UpdateMetadata(t *testing.T) {
	ctx := context.Background()

	t.Run("only provided fields", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := repository.NewDocumentRepository(database)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE documents SET title = $1, document_type = $2 WHERE uuid = $3`)).
			WithArgs("Новый", "invoice", "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateMetadata(ctx, database.DB, "doc-1", model.DocumentMetadata{Title: "Новый", DocumentType: "invoice"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing to update", func(t *testing.T) {
		database, mock := newMockDatabase(t)
		repo := repository.NewDocumentRepository(database)

		err := repo.UpdateMetadata(ctx, database.DB, "doc-1", model.DocumentMetadata{})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDocumentRepository_List(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM documents WHERE owner_uuid = $1 AND (LOWER(title) LIKE $2`)).
		WithArgs("user-1", "%дог%", "%дог%", "%дог%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $5 OFFSET $6`)).
		WithArgs("user-1", "%дог%", "%дог%", "%дог%", 10, 10).
		WillReturnRows(sqlmock.NewRows(documentRowColumns).
			AddRow("doc-11", "Договор", "описание", "contract", "files/a.pdf", 2, "ACTIVE", "user-1", created))

	docs, total, err := repo.List(context.Background(), database.DB, "user-1", model.DocumentListQuery{Search: " Дог ", Page: 2, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, 11, total)
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].Description)
	assert.Equal(t, "описание", *docs[0].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepository_DeleteIfStatus(t *testing.T) {
	database, mock := newMockDatabase(t)
	repo := repository.NewDocumentRepository(database)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM documents WHERE uuid = $1 AND status = $2`)).
		WithArgs("doc-1", model.DocumentPendingDelete).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	exec, rollback, _, err := repo.BeginTX(context.Background())
	require.NoError(t, err)

	err = repo.DeleteIfStatus(context.Background(), exec, "doc-1", model.DocumentPendingDelete)
	assert.ErrorIs(t, err, util.ErrInvalidState)

	require.NoError(t, rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}
