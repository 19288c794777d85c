package db

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/glezervv/reminder-bot/metrics"
)

// CreateReminder appends a new pending reminder and returns its id.
func (d *Database) CreateReminder(ctx context.Context, usr int64, description string, at time.Time) (int64, error) {
	if strings.TrimSpace(description) == "" {
		return 0, ErrEmptyDescription
	}

	var id int64
	err := d.pool.QueryRow(ctx, `INSERT INTO reminders(user_id, description, reminder_time, status)
VALUES($1, $2, $3, $4)
RETURNING id`, usr, description, at.Format(TimeLayout), StatusPending).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "failed inserting reminder")
	}

	metrics.RemindersCreated.Inc()
	return id, nil
}

// ListPending returns the user's pending reminders in creation order.
func (d *Database) ListPending(ctx context.Context, usr int64) ([]Reminder, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, user_id, description, reminder_time, status
FROM reminders
WHERE user_id=$1 AND status=$2
ORDER BY id ASC`, usr, StatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying reminders")
	}

	return extractReminders(rows)
}

// DeleteReminder removes the reminder only if it belongs to the user and
// returns the number of rows affected. A zero count is not an error.
func (d *Database) DeleteReminder(ctx context.Context, id, usr int64) (int64, error) {
	tag, err := d.pool.Exec(ctx, `DELETE FROM reminders WHERE id=$1 AND user_id=$2`, id, usr)
	if err != nil {
		return 0, errors.Wrap(err, "failed deleting reminder")
	}
	return tag.RowsAffected(), nil
}

// QueryDue returns every pending reminder scheduled exactly for the given
// minute. Sent reminders never match again.
func (d *Database) QueryDue(ctx context.Context, now time.Time) ([]Reminder, error) {
	rows, err := d.pool.Query(ctx, `SELECT id, user_id, description, reminder_time, status
FROM reminders
WHERE reminder_time=$1 AND status=$2
ORDER BY id ASC`, now.Format(TimeLayout), StatusPending)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying due reminders")
	}

	return extractReminders(rows)
}

// MarkDelivered transitions a reminder from pending to sent. Calling it
// again on a sent or absent reminder is a no-op.
func (d *Database) MarkDelivered(ctx context.Context, id int64) error {
	_, err := d.pool.Exec(ctx, `UPDATE reminders SET status=$1 WHERE id=$2 AND status=$3`,
		StatusSent, id, StatusPending)
	return errors.Wrap(err, "failed marking reminder delivered")
}

// extractReminders scans raw rows into reminder records.
func extractReminders(rows pgx.Rows) ([]Reminder, error) {
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		var at string

		if err := rows.Scan(&r.ID, &r.UserID, &r.Description, &at, &r.Status); err != nil {
			return nil, errors.Wrap(err, "failed scanning reminder")
		}

		ts, err := time.Parse(TimeLayout, at)
		if err != nil {
			return nil, errors.Wrap(err, "failed parsing stored reminder time")
		}
		r.RemindAt = ts

		reminders = append(reminders, r)
	}

	return reminders, errors.Wrap(rows.Err(), "failed reading reminders")
}
