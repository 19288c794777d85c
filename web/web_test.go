package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glezervv/reminder-bot/db"
)

func newTestServer(t *testing.T) (pgxmock.PgxPoolIface, http.Handler) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return mock, NewServer(db.New(mock), zap.NewNop().Sugar()).Router()
}

func postForm(handler http.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestIndexRendersForm(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="description"`)
	assert.Contains(t, w.Body.String(), `name="user_id"`)
}

func TestCreateReminder(t *testing.T) {
	mock, handler := newTestServer(t)

	mock.ExpectQuery(`INSERT INTO reminders`).
		WithArgs(int64(42), "Pay rent", "2025-03-01 09:00", db.StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))

	w := postForm(handler, url.Values{
		"user_id":     {"42"},
		"description": {"Pay rent"},
		"date":        {"2025-03-01"},
		"time":        {"09:00"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Reminder added!")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReminderBadDate(t *testing.T) {
	mock, handler := newTestServer(t)

	w := postForm(handler, url.Values{
		"user_id":     {"42"},
		"description": {"Pay rent"},
		"date":        {"2025-13-40"},
		"time":        {"25:99"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid reminder time")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateReminderBadUserID(t *testing.T) {
	_, handler := newTestServer(t)

	w := postForm(handler, url.Values{
		"user_id":     {"nobody"},
		"description": {"Pay rent"},
		"date":        {"2025-03-01"},
		"time":        {"09:00"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user_id")
}

func TestCreateReminderEmptyDescription(t *testing.T) {
	_, handler := newTestServer(t)

	w := postForm(handler, url.Values{
		"user_id":     {"42"},
		"description": {"  "},
		"date":        {"2025-03-01"},
		"time":        {"09:00"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "description is empty")
}

func TestListReminders(t *testing.T) {
	mock, handler := newTestServer(t)

	mock.ExpectQuery(`SELECT id, user_id, description, reminder_time, status`).
		WithArgs(int64(42), db.StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "description", "reminder_time", "status"}).
			AddRow(int64(1), int64(42), "Pay rent", "2025-03-01 09:00", db.StatusPending))

	req := httptest.NewRequest(http.MethodGet, "/list/42", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pay rent")
	assert.Contains(t, w.Body.String(), "2025-03-01 09:00")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRemindersEmpty(t *testing.T) {
	mock, handler := newTestServer(t)

	mock.ExpectQuery(`SELECT id, user_id, description, reminder_time, status`).
		WithArgs(int64(42), db.StatusPending).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "description", "reminder_time", "status"}))

	req := httptest.NewRequest(http.MethodGet, "/list/42", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No reminders.")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthz(t *testing.T) {
	_, handler := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
