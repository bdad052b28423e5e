// Package ingest connects to Twitch chat and drives the normalization
// pipeline: wire events become entities, entity records are appended to the
// session log, indexed, broadcast to live subscribers, and optionally
// archived. One service instance handles one channel.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	twitch "github.com/gempir/go-twitch-irc/v4"

	"github.com/onnwee/chat-tender/backend/config"
	"github.com/onnwee/chat-tender/backend/entity"
	"github.com/onnwee/chat-tender/backend/logstore"
	"github.com/onnwee/chat-tender/backend/notify"
	"github.com/onnwee/chat-tender/backend/stream"
	"github.com/onnwee/chat-tender/backend/tags"
	"github.com/onnwee/chat-tender/backend/telemetry"
)

// Archiver persists serialized records out of band. Implementations must be
// safe for concurrent use.
type Archiver interface {
	SaveRecord(ctx context.Context, rec entity.Record) error
}

// TokenProvider supplies the IRC user token, refreshing it when stale.
type TokenProvider interface {
	IRCToken() (string, error)
}

// sender is the outbound slice of the IRC client.
type sender interface {
	Say(channel, text string)
}

// Service owns the chat connection and the ingestion pipeline.
type Service struct {
	cfg      *config.Config
	store    logstore.Store
	users    *logstore.Users
	hub      *stream.Hub
	notifier *notify.Notifier
	archiver Archiver
	tokens   TokenProvider

	sender    sender
	connected atomic.Bool

	mu      sync.RWMutex
	room    entity.RoomStateRecord
	roomSet bool
}

// New wires the pipeline. archiver may be nil (in-memory only); tokens may be
// nil when cfg.TwitchOAuthToken is set directly.
func New(cfg *config.Config, store logstore.Store, users *logstore.Users, hub *stream.Hub, notifier *notify.Notifier, archiver Archiver, tokens TokenProvider) *Service {
	telemetry.Init()
	return &Service{
		cfg:      cfg,
		store:    store,
		users:    users,
		hub:      hub,
		notifier: notifier,
		archiver: archiver,
		tokens:   tokens,
	}
}

// Run connects to Twitch chat and blocks until the context is canceled or the
// connection fails.
func (s *Service) Run(ctx context.Context) error {
	if err := s.cfg.ValidateChatReady(); err != nil && s.tokens == nil {
		return err
	}

	token := s.cfg.TwitchOAuthToken
	if s.tokens != nil {
		t, err := s.tokens.IRCToken()
		if err != nil {
			return fmt.Errorf("resolve chat token: %w", err)
		}
		token = t
	}

	client := twitch.NewClient(s.cfg.TwitchBotUsername, token)
	s.sender = client

	client.OnConnect(func() {
		s.connected.Store(true)
		slog.Info("twitch chat connected", slog.String("channel", s.cfg.TwitchChannel))
	})
	client.OnPrivateMessage(func(msg twitch.PrivateMessage) {
		s.HandlePrivateMessage(ctx, msg)
	})
	client.OnWhisperMessage(func(msg twitch.WhisperMessage) {
		s.HandleWhisperMessage(ctx, msg)
	})
	client.OnNoticeMessage(func(msg twitch.NoticeMessage) {
		s.HandleNoticeMessage(ctx, msg)
	})
	client.OnUserNoticeMessage(func(msg twitch.UserNoticeMessage) {
		s.HandleUserNoticeMessage(ctx, msg)
	})
	client.OnRoomStateMessage(func(msg twitch.RoomStateMessage) {
		s.HandleRoomStateMessage(ctx, msg)
	})
	client.OnClearChatMessage(func(msg twitch.ClearChatMessage) {
		s.HandleClearChatMessage(ctx, msg)
	})

	client.Join(s.cfg.TwitchChannel)

	errCh := make(chan error, 1)
	go func() {
		errCh <- client.Connect()
	}()

	select {
	case <-ctx.Done():
		s.connected.Store(false)
		if err := client.Disconnect(); err != nil {
			slog.Warn("twitch disconnect", slog.Any("err", err))
		}
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		s.connected.Store(false)
		return err
	}
}

// Connected reports whether the IRC connection is up.
func (s *Service) Connected() bool {
	return s.connected.Load()
}

// HandlePrivateMessage ingests a channel message (or /me action).
func (s *Service) HandlePrivateMessage(ctx context.Context, msg twitch.PrivateMessage) {
	typ := entity.MessageChat
	if msg.Action {
		typ = entity.MessageAction
	}
	self := msg.User.Name != "" && msg.User.Name == s.cfg.TwitchBotUsername
	s.ingestMessage(ctx, typ, msg.ID, msg.Message, msg.User.Name, tags.Map(msg.Tags), self)
}

// HandleWhisperMessage ingests a direct whisper.
func (s *Service) HandleWhisperMessage(ctx context.Context, msg twitch.WhisperMessage) {
	s.ingestMessage(ctx, entity.MessageWhisper, msg.MessageID, msg.Message, msg.User.Name, tags.Map(msg.Tags), false)
}

// HandleNoticeMessage ingests a server notice, applying the ignore and
// linkify tables.
func (s *Service) HandleNoticeMessage(ctx context.Context, msg twitch.NoticeMessage) {
	s.ingestNotice(ctx, msg.Message, msg.MsgID)
}

// HandleUserNoticeMessage ingests the system text of a USERNOTICE (sub, raid,
// ritual); an embedded user message is ingested as a regular chat message.
func (s *Service) HandleUserNoticeMessage(ctx context.Context, msg twitch.UserNoticeMessage) {
	if msg.SystemMsg != "" {
		s.ingestNotice(ctx, msg.SystemMsg, msg.MsgID)
	}
	if msg.Message != "" {
		s.ingestMessage(ctx, entity.MessageChat, msg.ID, msg.Message, msg.User.Name, tags.Map(msg.Tags), false)
	}
}

// HandleRoomStateMessage replaces the tracked room state wholesale.
func (s *Service) HandleRoomStateMessage(_ context.Context, msg twitch.RoomStateMessage) {
	rec := entity.NewRoomState(tags.Map(msg.Tags)).Serialize()
	s.mu.Lock()
	s.room = rec
	s.roomSet = true
	s.mu.Unlock()
}

// HandleClearChatMessage marks the target chatter's messages purged. A
// CLEARCHAT without a target clears the whole room, so every indexed
// chatter's messages are flagged.
func (s *Service) HandleClearChatMessage(_ context.Context, msg twitch.ClearChatMessage) {
	purged := 0
	if msg.TargetUserID != "" {
		purged = s.store.MarkPurged(msg.TargetUserID)
	} else {
		for _, u := range s.users.All() {
			purged += s.store.MarkPurged(u.Chatter.ID)
		}
	}
	if purged > 0 {
		telemetry.RecordsPurged.Add(float64(purged))
	}
	slog.Info("clearchat applied",
		slog.String("target", msg.TargetUsername),
		slog.Int("purged", purged))
}

// RoomState returns the latest room state record; ok is false before the
// first ROOMSTATE event.
func (s *Service) RoomState() (entity.RoomStateRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.room, s.roomSet
}

// Say sends text to the channel and appends it locally as the bot's own
// message (the server does not echo it back). Rejects messages over the hard
// length limit.
func (s *Service) Say(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("empty message")
	}
	// Twitch counts characters, not bytes.
	length := utf8.RuneCountInString(text)
	if length > s.cfg.MessageMax {
		return fmt.Errorf("message length %d exceeds limit %d", length, s.cfg.MessageMax)
	}
	if length > s.cfg.MessageWarn {
		telemetry.OutboundLengthWarning.Inc()
		slog.Warn("outbound message near length limit",
			slog.Int("len", length),
			slog.Int("limit", s.cfg.MessageMax))
	}
	if s.sender == nil {
		return fmt.Errorf("chat connection not started")
	}
	s.sender.Say(s.cfg.TwitchChannel, text)
	telemetry.OutboundMessages.Inc()

	tm := tags.Map{
		"user-id":      entity.SelfUserID,
		"display-name": s.cfg.TwitchBotUsername,
	}
	s.ingestMessage(ctx, entity.MessageChat, entity.NewID(), text, s.cfg.TwitchBotUsername, tm, true)
	return nil
}

func (s *Service) ingestMessage(ctx context.Context, typ entity.MessageType, id, text, userName string, tm tags.Map, self bool) {
	msg, err := entity.NewMessage(typ, id, text, userName, tm, self)
	if err != nil {
		slog.Warn("dropping malformed message", slog.Any("err", err), slog.String("user", userName))
		return
	}
	rec := msg.Serialize()

	if replaced := s.store.Append(rec); replaced {
		telemetry.DuplicatesReplaced.Inc()
	}
	s.users.Record(rec.User, rec.ID)
	telemetry.MessagesIngested.Inc()

	s.hub.Publish(rec)
	if s.notifier != nil {
		// The notifier appends and broadcasts the notification itself;
		// the archive write stays here with the other persistence.
		if note := s.notifier.OnMessage(rec); note != nil {
			s.archive(ctx, *note)
		}
	}
	s.archive(ctx, rec)
	s.trim()
	telemetry.SetStoreDepth(s.store.Len())
}

func (s *Service) ingestNotice(ctx context.Context, text, event string) {
	if text == "" || s.cfg.IsNoticeIgnored(event) {
		return
	}
	rec := entity.NewNotice(text, event, s.cfg.IsNoticeLinkified(event)).Serialize()

	s.store.Append(rec)
	telemetry.NoticesIngested.Inc()

	s.hub.Publish(rec)
	s.archive(ctx, rec)
	s.trim()
	telemetry.SetStoreDepth(s.store.Len())
}

// trim evicts the oldest records once the log passes capacity, leaving
// LogMax-LogTrimThreshold entries.
func (s *Service) trim() {
	over := s.store.Len() - s.cfg.LogMax
	if over <= 0 {
		return
	}
	n := s.store.TrimOldest(over + s.cfg.LogTrimThreshold)
	if n > 0 {
		telemetry.RecordsTrimmed.Add(float64(n))
		slog.Debug("session log trimmed", slog.Int("evicted", n), slog.Int("len", s.store.Len()))
	}
}

func (s *Service) archive(ctx context.Context, rec entity.Record) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.SaveRecord(ctx, rec); err != nil {
		slog.Error("archive record failed", slog.Any("err", err), slog.String("id", rec.RecordID()))
	}
}
