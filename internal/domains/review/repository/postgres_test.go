package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accessrating-backend/internal/domains/review/model"
)

const (
	lockReviewSQL = `SELECT id FROM reviews WHERE id = \$1 FOR UPDATE`
	insertVoteSQL = `(?s)INSERT INTO review_votes \(review_id, user_id\) VALUES \(\$1, \$2\)\s+ON CONFLICT \(review_id, user_id\) DO NOTHING`
	deleteVoteSQL = `DELETE FROM review_votes WHERE review_id = \$1 AND user_id = \$2`
	recountSQL    = `(?s)UPDATE reviews\s+SET helpful_count = \(SELECT COUNT\(\*\) FROM review_votes WHERE review_id = \$1\)\s+WHERE id = \$1\s+RETURNING helpful_count`
)

func newMockRepository(t *testing.T) (ReviewRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresReviewRepository(mock), mock
}

func TestToggleVote_FirstToggleAddsVote(t *testing.T) {
	repo, mock := newMockRepository(t)
	reviewID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockReviewSQL).
		WithArgs(reviewID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectExec(insertVoteSQL).
		WithArgs(reviewID, userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(recountSQL).
		WithArgs(reviewID).
		WillReturnRows(pgxmock.NewRows([]string{"helpful_count"}).AddRow(3))
	mock.ExpectCommit()

	res, err := repo.ToggleVote(context.Background(), reviewID, userID)

	require.NoError(t, err)
	assert.True(t, res.UserHasVoted)
	assert.Equal(t, 3, res.HelpfulCount)
	assert.Equal(t, reviewID, res.ReviewID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleVote_SecondToggleRemovesVote(t *testing.T) {
	repo, mock := newMockRepository(t)
	reviewID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockReviewSQL).
		WithArgs(reviewID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectExec(insertVoteSQL).
		WithArgs(reviewID, userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectExec(deleteVoteSQL).
		WithArgs(reviewID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectQuery(recountSQL).
		WithArgs(reviewID).
		WillReturnRows(pgxmock.NewRows([]string{"helpful_count"}).AddRow(2))
	mock.ExpectCommit()

	res, err := repo.ToggleVote(context.Background(), reviewID, userID)

	require.NoError(t, err)
	assert.False(t, res.UserHasVoted)
	assert.Equal(t, 2, res.HelpfulCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleVote_MissingReviewRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	reviewID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockReviewSQL).
		WithArgs(reviewID).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	res, err := repo.ToggleVote(context.Background(), reviewID, userID)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleVote_RecountFailureRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)
	reviewID, userID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(lockReviewSQL).
		WithArgs(reviewID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(reviewID))
	mock.ExpectExec(insertVoteSQL).
		WithArgs(reviewID, userID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(recountSQL).
		WithArgs(reviewID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.ToggleVote(context.Background(), reviewID, userID)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
