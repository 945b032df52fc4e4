package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/watchroom/client/internal/rooms"
	"github.com/watchroom/client/pkg/rest"
)

type createRoomRequest struct {
	Name            string `json:"name" validate:"required,max=64"`
	Description     string `json:"description" validate:"max=256"`
	MaxParticipants int    `json:"max_participants" validate:"min=0"`
}

func (c controller) createRoom(w http.ResponseWriter, r *http.Request) {
	userId, displayName, err := c.identity(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": err.Error()})
		return
	}

	var req createRoomRequest
	if err := rest.ReadJSON(r, &req); err != nil {
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.roomsService.CreateRoom(r.Context(), &rooms.CreateRoomParams{
		HostId:          userId,
		HostName:        displayName,
		Name:            req.Name,
		Description:     req.Description,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to create room", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to create room"})
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": resp.Room})
}

type joinRoomRequest struct {
	Code string `json:"code" validate:"required,len=6,alphanum"`
}

func (c controller) joinRoom(w http.ResponseWriter, r *http.Request) {
	userId, displayName, err := c.identity(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": err.Error()})
		return
	}

	req := joinRoomRequest{Code: chi.URLParam(r, "room-code")}
	if validationErrors, ok := c.validate.Validate(req); !ok {
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	resp, err := c.roomsService.JoinRoom(r.Context(), &rooms.JoinRoomParams{
		UserId:      userId,
		DisplayName: displayName,
		Code:        req.Code,
	})
	if err != nil {
		switch err {
		case rooms.ErrRoomNotFound:
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found or closed"})
		case rooms.ErrRoomFull:
			rest.WriteJSON(w, http.StatusConflict, rest.Envelope{"error": "room is full"})
		default:
			c.logger.InfoContext(r.Context(), "failed to join room", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to join room"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": resp})
}

func (c controller) listMyRooms(w http.ResponseWriter, r *http.Request) {
	userId, _, err := c.identity(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": err.Error()})
		return
	}

	roomList, err := c.roomsService.ListMyRooms(r.Context(), userId)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to list rooms", "error", err)
		rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to list rooms"})
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": roomList})
}

func (c controller) deactivateRoom(w http.ResponseWriter, r *http.Request) {
	userId, _, err := c.identity(r)
	if err != nil {
		rest.WriteJSON(w, http.StatusUnauthorized, rest.Envelope{"error": err.Error()})
		return
	}

	roomId := chi.URLParam(r, "room-id")
	if roomId == "" {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		return
	}

	if err := c.roomsService.DeactivateRoom(r.Context(), &rooms.DeactivateRoomParams{
		RoomId:   roomId,
		SenderId: userId,
	}); err != nil {
		switch err {
		case rooms.ErrRoomNotFound:
			rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "room not found"})
		case rooms.ErrPermissionDenied:
			rest.WriteJSON(w, http.StatusForbidden, rest.Envelope{"error": "only the host can close a room"})
		default:
			c.logger.InfoContext(r.Context(), "failed to deactivate room", "error", err)
			rest.WriteJSON(w, http.StatusInternalServerError, rest.Envelope{"error": "failed to close room"})
		}
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": "room closed"})
}
