package db

import (
	"time"

	"github.com/pkg/errors"
)

// CreateReminder records an active one-shot reminder and fills in its ID.
func (d *Database) CreateReminder(r *Reminder) (int64, error) {
	now := clk.Now().UTC()
	res, err := d.db.Exec(`INSERT INTO reminders(owner_id, owner_chat_id, adder_chat_id, remind_at, interval_min, created_at, active)
VALUES(?, ?, ?, ?, ?, ?, 1)`,
		r.OwnerID, r.OwnerChatID, r.AdderChatID, r.RemindAt.UTC().Unix(), r.IntervalMin, now.Unix())
	if err != nil {
		return 0, errors.Wrap(err, "failed inserting reminder")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed reading reminder ID")
	}

	r.ID = id
	r.CreatedAt = now
	r.Active = true
	return id, nil
}

// MarkReminderDone deactivates the reminder. Reminder rows are never removed.
func (d *Database) MarkReminderDone(id int64) error {
	_, err := d.db.Exec(`UPDATE reminders SET active=0 WHERE id=?`, id)
	return errors.Wrap(err, "failed deactivating reminder")
}

// ActiveReminders returns all reminders that haven't been resolved yet, due
// first. Used at process start to re-arm timers.
func (d *Database) ActiveReminders() ([]Reminder, error) {
	rows, err := d.db.Query(`SELECT id, owner_id, owner_chat_id, adder_chat_id, remind_at, interval_min, created_at
FROM reminders WHERE active=1 ORDER BY remind_at ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed querying reminders")
	}
	defer rows.Close()

	var rems []Reminder
	for rows.Next() {
		var r Reminder
		var remindAt, createdAt int64

		err = rows.Scan(&r.ID, &r.OwnerID, &r.OwnerChatID, &r.AdderChatID, &remindAt, &r.IntervalMin, &createdAt)
		if err != nil {
			return nil, errors.Wrap(err, "failed scanning reminder")
		}

		r.RemindAt = time.Unix(remindAt, 0).UTC()
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		r.Active = true
		rems = append(rems, r)
	}

	return rems, errors.Wrap(rows.Err(), "failed reading reminders")
}
