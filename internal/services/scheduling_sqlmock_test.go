package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/vaxscheduler/internal/common"
	"github.com/dmitrijs2005/vaxscheduler/internal/dbx"
	"github.com/dmitrijs2005/vaxscheduler/internal/repositories/repomanager"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockScheduling(t *testing.T, retries uint64) (*SchedulingService, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	rm, err := repomanager.NewRepositoryManager(dbx.DialectPostgres)
	require.NoError(t, err)

	db := sqlx.NewDb(mockDB, "pgx")
	return NewSchedulingService(db, rm, dbx.TxPolicy{Retries: retries}), mock
}

// expectReserveUpToInsert queues the statements of a reservation that has
// found caregiver c1 and a Pfizer row with 2 doses, up to the insert.
func expectReserveUpToInsert(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM availabilities`)).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("c1"))
	mock.ExpectQuery(`SELECT name, doses FROM vaccines WHERE name = \$1 FOR UPDATE`).
		WithArgs("Pfizer").
		WillReturnRows(sqlmock.NewRows([]string{"name", "doses"}).AddRow("Pfizer", 2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM vaccines WHERE name = $1 AND doses >= $2`)).
		WithArgs("Pfizer", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT nextval('reservation_id_seq')`)).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO reservations`).
		WithArgs(int64(7), "p1", "c1", "Pfizer", "2025-03-01").
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestReserve_SlotRemovalFailureRollsBack(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WithArgs("c1", "2025-03-01").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_DecrementFailureRollsBack(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE vaccines SET doses = doses - 1 WHERE name = $1 AND doses >= 1`)).
		WithArgs("Pfizer").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.ErrorIs(t, err, common.ErrInsufficientDoses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_LostSlotRaceIsRetried(t *testing.T) {
	s, mock := newMockScheduling(t, 1)

	// first attempt: the slot vanished between select and delete
	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// second attempt succeeds
	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vaccines SET doses = doses - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.NoError(t, err)
	assert.Equal(t, int64(7), r.ID)
	assert.Equal(t, "c1", r.CaregiverUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_ConflictAfterRetriesIsReported(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.ErrorIs(t, err, common.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_LockedSlotIsRetriedNotReportedMissing(t *testing.T) {
	s, mock := newMockScheduling(t, 1)

	// first attempt: the only slot is locked by a reservation that later
	// rolls back, so SKIP LOCKED finds nothing but the slot still exists
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT username FROM availabilities .* FOR UPDATE SKIP LOCKED`).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username FROM availabilities WHERE available_date = $1 ORDER BY username`)).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("c1"))
	mock.ExpectRollback()

	// second attempt sees the released slot
	expectReserveUpToInsert(mock)
	mock.ExpectExec(`DELETE FROM availabilities`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vaccines SET doses = doses - 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	r, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.NoError(t, err)
	assert.Equal(t, "c1", r.CaregiverUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_NoSlotAtAll(t *testing.T) {
	s, mock := newMockScheduling(t, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)SELECT username FROM availabilities .* FOR UPDATE SKIP LOCKED`).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}))
	mock.ExpectQuery(`SELECT username FROM availabilities WHERE available_date = \$1 ORDER BY username`).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}))
	mock.ExpectRollback()

	_, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.ErrorIs(t, err, common.ErrNoCaregiverAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReserve_NoStockRollsBack(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT username FROM availabilities`).
		WithArgs("2025-03-01").
		WillReturnRows(sqlmock.NewRows([]string{"username"}).AddRow("c1"))
	mock.ExpectQuery(`SELECT name, doses FROM vaccines WHERE name = \$1 FOR UPDATE`).
		WithArgs("Pfizer").
		WillReturnRows(sqlmock.NewRows([]string{"name", "doses"}).AddRow("Pfizer", 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM vaccines`).
		WithArgs("Pfizer", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err := s.Reserve(context.Background(), patient("p1"), march1, "Pfizer")
	require.ErrorIs(t, err, common.ErrInsufficientDoses)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_RestoreFailureRollsBack(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	cols := []string{"id", "patient_username", "caregiver_username", "vaccine_name", "appointment_date"}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, patient_username, caregiver_username, vaccine_name, appointment_date FROM reservations WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "p1", "c1", "Pfizer", "2025-03-01"))
	mock.ExpectExec(`DELETE FROM reservations WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO availabilities`).
		WithArgs("c1", "2025-03-01").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := s.Cancel(context.Background(), patient("p1"), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel_ForbiddenTouchesNothing(t *testing.T) {
	s, mock := newMockScheduling(t, 0)

	cols := []string{"id", "patient_username", "caregiver_username", "vaccine_name", "appointment_date"}

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM reservations WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(7, "p1", "c1", "Pfizer", "2025-03-01"))
	mock.ExpectRollback()

	_, err := s.Cancel(context.Background(), patient("p2"), 7)
	require.ErrorIs(t, err, common.ErrForbidden)
	require.NoError(t, mock.ExpectationsWereMet())
}
