package tgbot

import (
	"sync"
	"time"
)

type stage int

const (
	stageIdle          stage = iota
	stageVolume        // waiting for a typed volume
	stageTime          // waiting for a typed feeding time
	stageVolumeForTime // time accepted, waiting for a typed volume
	stageReminder      // draft complete, waiting for a reminder choice
)

// session is the per-user conversation state: the current stage plus the
// draft feeding being assembled. Handlers hold mu for the whole update, which
// serializes near-simultaneous messages from the same user.
type session struct {
	mu sync.Mutex

	stage       stage
	ownerID     int64
	ownerChatID int64
	adderChatID int64
	feedAt      time.Time // draft feeding time, UTC
	volume      int       // draft volume, ml
}

func (s *session) reset() {
	s.stage = stageIdle
	s.ownerID = 0
	s.ownerChatID = 0
	s.adderChatID = 0
	s.feedAt = time.Time{}
	s.volume = 0
}

// sessions hands out exactly one session per acting user.
type sessions struct {
	mu sync.Mutex
	m  map[int64]*session
}

func newSessions() *sessions {
	return &sessions{m: make(map[int64]*session)}
}

func (ss *sessions) get(usr int64) *session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	s := ss.m[usr]
	if s == nil {
		s = &session{}
		ss.m[usr] = s
	}

	return s
}
