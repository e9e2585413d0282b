// Package chat holds the room and message orchestration engine: who is in
// which room, what each of them can read, how much of it is unread, and
// how a new message reaches everyone.
package chat

import (
	"log/slog"
	"time"

	"github.com/SWYP-foreigner/Kori-chatting/metrics"
)

type Config struct {
	Tx           Transactor
	Rooms        RoomStore
	Participants ParticipantStore
	Messages     MessageStore

	Users       UserDirectory
	Images      ImageDirectory
	Translator  Translator
	Notifier    Notifier
	Broadcaster Broadcaster

	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// CollaboratorTimeout bounds every single call to an external
	// collaborator. Defaults to 3s.
	CollaboratorTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Engine wires the components together.
type Engine struct {
	Ledger     *Ledger
	Registry   *Registry
	Messages   *MessageLog
	Unread     *Accountant
	Summaries  *Summaries
	Dispatcher *Dispatcher
	Groups     *Groups
}

func New(cfg Config) *Engine {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	collab := collaborators{
		users:      cfg.Users,
		images:     cfg.Images,
		translator: cfg.Translator,
		notifier:   cfg.Notifier,
		timeout:    cfg.CollaboratorTimeout,
		metrics:    cfg.Metrics,
	}

	ledger := &Ledger{
		tx:           cfg.Tx,
		participants: cfg.Participants,
		now:          now,
	}
	registry := &Registry{
		tx:           cfg.Tx,
		rooms:        cfg.Rooms,
		participants: cfg.Participants,
		ledger:       ledger,
		collab:       collab,
		logger:       logger,
		metrics:      cfg.Metrics,
		now:          now,
	}
	messages := &MessageLog{
		tx:           cfg.Tx,
		rooms:        cfg.Rooms,
		participants: cfg.Participants,
		messages:     cfg.Messages,
		ledger:       ledger,
		collab:       collab,
		logger:       logger,
		now:          now,
	}
	unread := &Accountant{
		participants: cfg.Participants,
		messages:     cfg.Messages,
		ledger:       ledger,
	}
	summaries := &Summaries{
		rooms:        cfg.Rooms,
		participants: cfg.Participants,
		messages:     cfg.Messages,
		unread:       unread,
		collab:       collab,
		logger:       logger,
	}

	return &Engine{
		Ledger:    ledger,
		Registry:  registry,
		Messages:  messages,
		Unread:    unread,
		Summaries: summaries,
		Dispatcher: &Dispatcher{
			tx:           cfg.Tx,
			rooms:        cfg.Rooms,
			participants: cfg.Participants,
			log:          messages,
			ledger:       ledger,
			unread:       unread,
			summaries:    summaries,
			collab:       collab,
			broadcaster:  cfg.Broadcaster,
			logger:       logger,
			metrics:      cfg.Metrics,
		},
		Groups: &Groups{
			rooms:        cfg.Rooms,
			participants: cfg.Participants,
			collab:       collab,
			logger:       logger,
		},
	}
}
