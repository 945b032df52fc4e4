package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/watchroom/client/internal/player/remote"
	"github.com/watchroom/client/internal/rooms"
	"github.com/watchroom/client/internal/session"
	"github.com/watchroom/client/internal/syncer"
	"github.com/watchroom/client/pkg/rest"
	"github.com/watchroom/client/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// wsWriter serializes writes from the session pump, the notice forwarder
// and the message handlers onto one connection.
type wsWriter struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsWriter) WriteJSON(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(v)
}

func (c controller) roomWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userId, _, err := c.identity(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": err.Error()})
		return
	}

	roomCode := chi.URLParam(r, "room-code")
	snapshot, err := c.roomsService.GetRoomSnapshot(ctx, &rooms.GetRoomSnapshotParams{
		Code:   roomCode,
		UserId: userId,
	})
	if err != nil {
		switch err {
		case rooms.ErrRoomNotFound:
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found or closed"})
		case rooms.ErrPermissionDenied:
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "join the room before connecting"})
		default:
			c.logger.InfoContext(ctx, "failed to get room snapshot", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to load room"})
		}
		return
	}

	sub, err := c.notifier.Subscribe(ctx, snapshot.Room.Id)
	if err != nil {
		c.logger.InfoContext(ctx, "failed to subscribe to room changes", "room_id", snapshot.Room.Id, "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to load room"})
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sub.Close()
		c.logger.InfoContext(ctx, "failed to upgrade connection", "error", err)
		return
	}

	writer := &wsWriter{conn: conn}
	adapter := remote.NewAdapter(writer)
	sess := session.New(&session.Params{
		RoomId:        snapshot.Room.Id,
		UserId:        userId,
		IsHost:        snapshot.Room.HostId == userId,
		Adapter:       adapter,
		Subscription:  sub,
		PlaybackStore: c.playbackStore,
		RoomsService:  c.roomsService,
		SyncConfig:    c.syncConfig,
		Logger:        c.logger,
	})

	writer.WriteJSON(&Output{Type: "ROOM_SNAPSHOT", Payload: snapshot})

	sessionCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sess.Run(sessionCtx)
	go c.forwardSessionOutputs(sessionCtx, sess, writer)

	if err := c.wsRouterFor(sess, adapter, writer).ServeConn(sessionCtx, conn); err != nil {
		c.logger.DebugContext(ctx, "room connection closed", "room_id", snapshot.Room.Id, "user_id", userId, "error", err)
	}

	cancel()
	if err := sess.Leave(context.WithoutCancel(ctx)); err != nil {
		c.logger.InfoContext(ctx, "failed to leave room", "room_id", snapshot.Room.Id, "user_id", userId, "error", err)
	}
	conn.Close()
}

func (c controller) forwardSessionOutputs(ctx context.Context, sess *session.Session, writer *wsWriter) {
	for {
		select {
		case <-ctx.Done():
			return
		case notice := <-sess.Notices():
			writer.WriteJSON(&Output{Type: "NOTICE", Payload: notice})
		case <-sess.Closed():
			writer.WriteJSON(&Output{Type: "ROOM_CLOSED", Payload: "this room has been closed by the host"})
			return
		}
	}
}

type seekInput struct {
	Seconds float64 `json:"seconds" validate:"min=0"`
}

type loadVideoInput struct {
	URL string `json:"url" validate:"required,url"`
}

func (c controller) wsRouterFor(sess *session.Session, adapter *remote.Adapter, writer *wsWriter) *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Handle("ALIVE", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return nil
	})

	mux.Handle("PLAY", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return sess.Intent(syncer.LocalIntent{Kind: syncer.IntentPlay})
	})

	mux.Handle("PAUSE", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		return sess.Intent(syncer.LocalIntent{Kind: syncer.IntentPause})
	})

	mux.Handle("SEEK", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input seekInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return validationError(validationErrors)
		}
		return sess.Intent(syncer.LocalIntent{Kind: syncer.IntentSeek, Seconds: input.Seconds})
	})

	mux.Handle("LOAD_VIDEO", c.handleLoadVideo(sess, writer))

	mux.Handle("PLAYER_STATUS", func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var report remote.StatusReport
		if err := json.Unmarshal(payload, &report); err != nil {
			return err
		}
		adapter.Deliver(&report)
		return nil
	})

	mux.HandleError(func(ctx context.Context, conn *websocket.Conn, messageType string, err error) {
		c.logger.InfoContext(ctx, "ws message failed", "message_type", messageType, "error", err)
		writer.WriteJSON(&Output{Type: "ERROR", Payload: rest.Envelope{
			"message_type": messageType,
			"error":        err.Error(),
		}})
	})

	return mux
}

func validationError(validationErrors any) error {
	payload, err := json.Marshal(validationErrors)
	if err != nil {
		return errors.New("validation failed")
	}
	return errors.New(string(payload))
}
