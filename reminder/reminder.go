package reminder

import (
	"fmt"

	"feedingbot/db"

	"github.com/jmhodges/clock"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var clk = clock.New()

const (
	fmtReminderDue  = "⏰ It's been %s since the last feeding. Time to feed! 🍼"
	fmtReminderLate = "⏰ (delayed) A feeding reminder was due %s after the last feeding, but I was offline. 🍼"
)

// Manager arms one-shot timers for durable reminder records. Timers live in
// process memory only; Restore rebuilds them from the store after a restart.
type Manager struct {
	db     *db.Database
	logger *zap.SugaredLogger
	notify func(chatID int64, txt string) error
}

func NewManager(d *db.Database, notify func(int64, string) error, l *zap.SugaredLogger) *Manager {
	return &Manager{db: d, logger: l, notify: notify}
}

// Schedule arms a one-shot timer for the reminder. A remind-at instant
// already in the past deactivates the reminder without firing: the feeding
// itself is recorded either way.
func (m *Manager) Schedule(rem db.Reminder) {
	delay := rem.RemindAt.Sub(clk.Now())
	if delay <= 0 {
		if err := m.db.MarkReminderDone(rem.ID); err != nil {
			m.logger.Errorw("failed deactivating stale reminder", "id", rem.ID, "err", err)
		}
		return
	}

	due := clk.After(delay)
	go func() {
		<-due
		m.fire(rem, fmt.Sprintf(fmtReminderDue, formatInterval(rem.IntervalMin)))
	}()
}

// Restore re-arms all reminders that survived a restart. Future reminders
// get a fresh timer; overdue ones fire immediately with a late-delivery note
// so the notification isn't lost silently.
func (m *Manager) Restore() error {
	rems, err := m.db.ActiveReminders()
	if err != nil {
		return errors.Wrap(err, "failed listing active reminders")
	}

	now := clk.Now()
	for _, rem := range rems {
		if rem.RemindAt.After(now) {
			m.Schedule(rem)
			continue
		}

		m.logger.Infow("firing reminder missed while down", "id", rem.ID)
		go m.fire(rem, fmt.Sprintf(fmtReminderLate, formatInterval(rem.IntervalMin)))
	}

	m.logger.Infof("restored %d reminders", len(rems))
	return nil
}

// fire delivers the reminder and deactivates it. Each delivery is
// best-effort: failing to reach one chat must not stop the other, and the
// reminder is marked done regardless.
func (m *Manager) fire(rem db.Reminder, txt string) {
	if err := m.notify(rem.OwnerChatID, txt); err != nil {
		m.logger.Errorw("failed notifying owner", "chat", rem.OwnerChatID, "err", err)
	}

	if rem.AdderChatID != rem.OwnerChatID {
		if err := m.notify(rem.AdderChatID, txt); err != nil {
			m.logger.Errorw("failed notifying adder", "chat", rem.AdderChatID, "err", err)
		}
	}

	if err := m.db.MarkReminderDone(rem.ID); err != nil {
		m.logger.Errorw("failed deactivating reminder", "id", rem.ID, "err", err)
	}
}

func formatInterval(min int) string {
	h, mm := min/60, min%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", mm)
	case mm == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, mm)
	}
}
