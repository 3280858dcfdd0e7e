package tgbot

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	layoutDateTime = "2006-01-02 15:04"
	layoutTime     = "15:04"
	layoutDisplay  = "2006-01-02 15:04 MST"
)

var (
	errBadVolume = errors.New("volume must be a positive whole number")
	errBadTime   = errors.New("unrecognized time format")
)

// parseVolume accepts a base-10 integer strictly greater than zero.
func parseVolume(txt string) (int, error) {
	ml, err := strconv.Atoi(strings.TrimSpace(txt))
	if err != nil || ml <= 0 {
		return 0, errBadVolume
	}

	return ml, nil
}

// parseFeedTime parses either "2006-01-02 15:04" or a bare "15:04" in loc.
// A bare time resolves to its nearest future occurrence: today if still
// ahead, otherwise tomorrow. Absolute date-times are taken as given, past or
// not. The result is UTC.
func parseFeedTime(txt string, now time.Time, loc *time.Location) (time.Time, error) {
	txt = strings.TrimSpace(txt)

	if t, err := time.ParseInLocation(layoutDateTime, txt, loc); err == nil {
		return t.UTC(), nil
	}

	t, err := time.ParseInLocation(layoutTime, txt, loc)
	if err != nil {
		return time.Time{}, errBadTime
	}

	localNow := now.In(loc)
	at := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	return at.UTC(), nil
}
