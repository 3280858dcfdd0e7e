package main

import (
	"os"
	"time"

	"feedingbot/config"
	"feedingbot/db"
	"feedingbot/reminder"
	"feedingbot/tgbot"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// getLogger creates the process-wide logger
func getLogger() (*zap.SugaredLogger, func() error) {
	logger, _ := zap.NewDevelopment(zap.Fields(zap.String("ns", "FeedingBot")))

	log := logger.Sugar()
	return log, logger.Sync
}

func main() {
	logger, syncLogs := getLogger()
	defer syncLogs()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("invalid configuration", "err", err)
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		logger.Fatalw("unknown time zone", "tz", cfg.TimeZone, "err", err)
	}

	if err = os.MkdirAll(cfg.BaseDir, 0o755); err != nil {
		logger.Fatalw("couldn't create base directory", "dir", cfg.BaseDir, "err", err)
	}

	d, err := db.Open(cfg.DBPath())
	if err != nil {
		logger.Fatalw("couldn't open database", "path", cfg.DBPath(), "err", err)
	}
	defer d.Close()

	api, err := tg.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatalw("couldn't initialize Telegram Bot", "err", err)
	}
	api.Debug = false

	logger.Infof("authorized on account %q", api.Self.UserName)

	b := tgbot.New(api, d, loc, logger)
	b.ReminderManager = reminder.NewManager(d, b.NotifyChat, logger)

	// timers are process-local; rebuild them from durable reminder records
	if err = b.ReminderManager.Restore(); err != nil {
		logger.Fatalw("couldn't restore reminders", "err", err)
	}

	b.Run(api)
}
