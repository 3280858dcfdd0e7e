package tgbot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"feedingbot/db"
	"feedingbot/reminder"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmhodges/clock"
	"go.uber.org/zap"
)

var clk = clock.New()

const (
	cmdStart  = "start"
	cmdHelp   = "help"
	cmdShare  = "share"
	cmdJoin   = "join"
	cmdCancel = "cancel"
)

const (
	txtHelpMessage = `Commands:
/start — open the menu
/share — create an invite code
/join <code> — join an owner by code
/cancel — cancel pending input
/help — this message`
	txtUnknownCommand  = "I don't know this command. Use /help to list the ones I do."
	txtChooseVolume    = "Choose the feeding volume 🥛:"
	txtEnterVolume     = "Enter the volume in ml (a whole number), e.g. 135. Send a message or /cancel."
	txtEnterTime       = "Enter the feeding time as HH:MM or YYYY-MM-DD HH:MM. Send a message or /cancel."
	txtBadVolume       = "That doesn't look right. Enter a positive whole number of ml or /cancel."
	txtBadTime         = "I couldn't read that time. Use HH:MM or YYYY-MM-DD HH:MM, or /cancel."
	txtChooseReminder  = "Remind you about the next feeding? Pick a delay:"
	txtCancelled       = "Cancelled ↩️"
	txtNothingToCancel = "No pending input."
	txtNoFeedings24h   = "No feedings in the last 24 hours. 😴"
	txtNothingToDelete = "Nothing to delete — no records."
	txtDeletedLast     = "🗑 Last feeding deleted."
	txtUseMenu         = "Use the menu or /start to open it."
	txtJoinUsage       = "Usage: /join <CODE>\nExample: /join ABC123"
	txtCodeNotFound    = "Code not found or invalid. ❌"
	txtCodeAlreadyUsed = "This code has already been used. ❌"
	txtStorageTrouble  = "Something went wrong on my side. Please try again."
	txtReminderTrouble = "I couldn't set the reminder, though."
	txtStatsHeader     = "📋 Feedings in the last 24 hours:\n\n"

	fmtWelcome      = "Hi, %s! 🍼\nChoose an action:"
	fmtFeedingAdded = "✅ Feeding added: %s — %d ml 🍼"
	fmtReminderSet  = "⏰ I'll remind you in %d min."
	fmtDeletedAll   = "🧹 Records deleted: %d"
	fmtInviteCode   = "🔗 Invite code created: <b>%s</b>\nSend this code to the person you want to invite.\nThey should send /join &lt;code&gt; to this bot."
	fmtJoined       = "You joined user %d. You can now add feedings and view their stats. ✅"
	fmtStatsFooter  = "\nTotal: %d feedings, %d ml 🧾"
)

// sender is the part of the Telegram API the bot uses to talk back.
type sender interface {
	Request(c tg.Chattable) (*tg.APIResponse, error)
}

type TBot struct {
	Bot             sender
	DB              *db.Database
	Logger          *zap.SugaredLogger
	ReminderManager *reminder.Manager
	Loc             *time.Location
	RetryAttempts   int
	RetryDelay      time.Duration

	sessions *sessions
}

func New(api sender, d *db.Database, loc *time.Location, l *zap.SugaredLogger) *TBot {
	return &TBot{
		Bot:           api,
		DB:            d,
		Logger:        l,
		Loc:           loc,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		sessions:      newSessions(),
	}
}

// Run dispatches incoming updates until the update channel closes. Each
// update is handled in its own goroutine; per-user ordering is enforced by
// the session lock.
func (b *TBot) Run(api *tg.BotAPI) {
	uCfg := tg.NewUpdate(0)
	uCfg.Timeout = 60

	for u := range api.GetUpdatesChan(uCfg) {
		switch {
		case u.Message != nil && u.Message.IsCommand():
			go b.HandleCommand(u.Message)
		case u.Message != nil:
			go b.HandleMessage(u.Message)
		case u.CallbackQuery != nil:
			go b.HandleCallback(u.CallbackQuery)
		}
	}
}

func (b *TBot) HandleCommand(msg *tg.Message) {
	usr := msg.From.ID
	cht := msg.Chat.ID

	s := b.sessions.get(usr)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Command() {
	case cmdStart:
		s.reset()
		name := msg.From.FirstName
		if name == "" {
			name = "friend"
		}
		b.SendMessage(cht, fmt.Sprintf(fmtWelcome, name), -1, &mainKeyboard)

	case cmdHelp:
		b.SendMessage(cht, txtHelpMessage, -1, nil)

	case cmdShare:
		// the invite is always created for the acting user's own records
		b.shareInvite(usr, cht, -1)

	case cmdJoin:
		args := strings.TrimSpace(msg.CommandArguments())
		if args == "" {
			b.SendMessage(cht, txtJoinUsage, msg.MessageID, nil)
			return
		}
		b.join(usr, cht, msg.MessageID, strings.ToUpper(strings.Fields(args)[0]))

	case cmdCancel:
		if s.stage == stageIdle {
			b.SendMessage(cht, txtNothingToCancel, -1, &mainKeyboard)
			return
		}
		s.reset()
		b.SendMessage(cht, txtCancelled, -1, &mainKeyboard)

	default:
		b.SendMessage(cht, txtUnknownCommand, msg.MessageID, nil)
	}
}

// HandleMessage routes free text into whichever awaiting stage is active.
// Parse failures keep the stage so the user doesn't lose their place.
func (b *TBot) HandleMessage(msg *tg.Message) {
	usr := msg.From.ID
	cht := msg.Chat.ID

	s := b.sessions.get(usr)
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.stage {
	case stageVolume, stageVolumeForTime:
		ml, err := parseVolume(msg.Text)
		if err != nil {
			b.SendMessage(cht, txtBadVolume, msg.MessageID, nil)
			return
		}

		if s.stage == stageVolume {
			s.feedAt = clk.Now().UTC()
		}
		s.volume = ml
		s.stage = stageReminder
		b.SendMessage(cht, txtChooseReminder, -1, &reminderKeyboard)

	case stageTime:
		at, err := parseFeedTime(msg.Text, clk.Now(), b.Loc)
		if err != nil {
			b.SendMessage(cht, txtBadTime, msg.MessageID, nil)
			return
		}

		s.feedAt = at
		s.stage = stageVolumeForTime
		b.SendMessage(cht, txtEnterVolume, -1, nil)

	default:
		b.SendMessage(cht, txtUseMenu, -1, &mainKeyboard)
	}
}

func (b *TBot) HandleCallback(cbq *tg.CallbackQuery) {
	usr := cbq.From.ID
	cht := cbq.Message.Chat.ID
	msgID := cbq.Message.MessageID

	// stop the client-side spinner
	if _, err := b.Bot.Request(tg.NewCallback(cbq.ID, "")); err != nil {
		b.Logger.Debugw("failed answering callback query", "err", err)
	}

	s := b.sessions.get(usr)
	s.mu.Lock()
	defer s.mu.Unlock()

	// delegation can be established mid-session, so resolve on every update
	ownerID, err := b.resolveOwner(usr)
	if err != nil {
		b.Logger.Errorw("failed resolving owner", "err", err)
		b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
		return
	}

	data := cbq.Data
	switch {
	case data == cbqAdd:
		b.ReplaceMessage(cht, txtChooseVolume, msgID, &amountKeyboard)

	case data == cbqMlCustom:
		s.stage = stageVolume
		s.ownerID = ownerID
		s.ownerChatID = ownerID
		s.adderChatID = cht
		b.ReplaceMessage(cht, txtEnterVolume, msgID, nil)

	case data == cbqTimeCustom:
		s.stage = stageTime
		s.ownerID = ownerID
		s.ownerChatID = ownerID
		s.adderChatID = cht
		b.ReplaceMessage(cht, txtEnterTime, msgID, nil)

	case data == cbqRemNone || strings.HasPrefix(data, cbqRemPrefix):
		if s.stage != stageReminder {
			// stale button on an old message
			b.ReplaceMessage(cht, txtUseMenu, msgID, &mainKeyboard)
			return
		}

		var delayMin int
		if data != cbqRemNone {
			delayMin, err = strconv.Atoi(strings.TrimPrefix(data, cbqRemPrefix))
			if err != nil || delayMin <= 0 {
				b.ReplaceMessage(cht, txtUseMenu, msgID, &mainKeyboard)
				return
			}
		}
		b.commitDraft(s, delayMin, cht, msgID)

	case strings.HasPrefix(data, cbqMlPrefix):
		ml, err := strconv.Atoi(strings.TrimPrefix(data, cbqMlPrefix))
		if err != nil || ml <= 0 {
			b.ReplaceMessage(cht, txtUseMenu, msgID, &mainKeyboard)
			return
		}

		s.stage = stageReminder
		s.ownerID = ownerID
		s.ownerChatID = ownerID
		s.adderChatID = cht
		s.feedAt = clk.Now().UTC()
		s.volume = ml
		b.ReplaceMessage(cht, txtChooseReminder, msgID, &reminderKeyboard)

	case data == cbqCancel:
		s.reset()
		b.ReplaceMessage(cht, txtCancelled, msgID, &mainKeyboard)

	case data == cbqStats:
		b.sendStats(ownerID, cht, msgID)

	case data == cbqDelLast:
		found, err := b.DB.DeleteLastFeeding(ownerID)
		if err != nil {
			b.Logger.Errorw("failed deleting last feeding", "err", err)
			b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
			return
		}
		if !found {
			b.ReplaceMessage(cht, txtNothingToDelete, msgID, &mainKeyboard)
			return
		}
		b.ReplaceMessage(cht, txtDeletedLast, msgID, &mainKeyboard)

	case data == cbqDelAll:
		n, err := b.DB.DeleteAllFeedings(ownerID)
		if err != nil {
			b.Logger.Errorw("failed deleting feedings", "err", err)
			b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
			return
		}
		b.ReplaceMessage(cht, fmt.Sprintf(fmtDeletedAll, n), msgID, &mainKeyboard)

	case data == cbqShare:
		b.shareInvite(usr, cht, msgID)

	default:
		b.ReplaceMessage(cht, txtUseMenu, msgID, &mainKeyboard)
	}
}

// resolveOwner maps the acting user to the owner whose records they operate
// on: the delegating owner when an invite was claimed, themselves otherwise.
func (b *TBot) resolveOwner(usr int64) (int64, error) {
	ownerID, ok, err := b.DB.OwnerByInvited(usr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return usr, nil
	}

	return ownerID, nil
}

// commitDraft is the sole place a feeding reaches the store. A chosen delay
// also creates and arms a reminder relative to the feeding time.
func (b *TBot) commitDraft(s *session, delayMin int, cht int64, msgID int) {
	if _, err := b.DB.AddFeeding(s.ownerID, s.feedAt, s.volume); err != nil {
		b.Logger.Errorw("failed recording feeding", "err", err)
		b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
		return
	}

	txt := fmt.Sprintf(fmtFeedingAdded, s.feedAt.In(b.Loc).Format(layoutDisplay), s.volume)

	if delayMin > 0 {
		rem := &db.Reminder{
			OwnerID:     s.ownerID,
			OwnerChatID: s.ownerChatID,
			AdderChatID: s.adderChatID,
			RemindAt:    s.feedAt.Add(time.Duration(delayMin) * time.Minute),
			IntervalMin: delayMin,
		}

		if _, err := b.DB.CreateReminder(rem); err != nil {
			b.Logger.Errorw("failed recording reminder", "err", err)
			txt += "\n" + txtReminderTrouble
		} else {
			b.ReminderManager.Schedule(*rem)
			txt += "\n" + fmt.Sprintf(fmtReminderSet, delayMin)
		}
	}

	s.reset()
	b.ReplaceMessage(cht, txt, msgID, &mainKeyboard)
}

func (b *TBot) sendStats(ownerID, cht int64, msgID int) {
	feedings, err := b.DB.FeedingsSince(ownerID, clk.Now().UTC().Add(-24*time.Hour))
	if err != nil {
		b.Logger.Errorw("failed listing feedings", "err", err)
		b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
		return
	}

	if len(feedings) == 0 {
		b.ReplaceMessage(cht, txtNoFeedings24h, msgID, &mainKeyboard)
		return
	}

	var sb strings.Builder
	var total int
	sb.WriteString(txtStatsHeader)
	for _, f := range feedings {
		sb.WriteString(f.At.In(b.Loc).Format(layoutDisplay))
		if f.Volume > 0 {
			fmt.Fprintf(&sb, " — %d ml", f.Volume)
			total += f.Volume
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, fmtStatsFooter, len(feedings), total)

	b.ReplaceMessage(cht, sb.String(), msgID, &mainKeyboard)
}

func (b *TBot) shareInvite(usr, cht int64, msgID int) {
	code, err := b.DB.CreateInvite(usr)
	if err != nil {
		b.Logger.Errorw("failed creating invite", "err", err)
		if msgID >= 0 {
			b.ReplaceMessage(cht, txtStorageTrouble, msgID, &mainKeyboard)
		} else {
			b.SendMessage(cht, txtStorageTrouble, -1, nil)
		}
		return
	}

	txt := fmt.Sprintf(fmtInviteCode, code)
	if msgID >= 0 {
		b.ReplaceMessage(cht, txt, msgID, &mainKeyboard)
	} else {
		b.SendMessage(cht, txt, -1, nil)
	}
}

func (b *TBot) join(usr, cht int64, replyID int, code string) {
	ownerID, status, err := b.DB.ClaimInvite(code, usr)
	if err != nil {
		b.Logger.Errorw("failed claiming invite", "err", err)
		b.SendMessage(cht, txtStorageTrouble, replyID, nil)
		return
	}

	switch status {
	case db.JoinNotFound:
		b.SendMessage(cht, txtCodeNotFound, replyID, nil)
	case db.JoinAlreadyUsed:
		b.SendMessage(cht, txtCodeAlreadyUsed, replyID, nil)
	default:
		b.SendMessage(cht, fmt.Sprintf(fmtJoined, ownerID), -1, nil)
	}
}
