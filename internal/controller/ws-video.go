package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/watchroom/client/internal/session"
	"github.com/watchroom/client/internal/syncer"
	"github.com/watchroom/client/pkg/wsrouter"
	"github.com/watchroom/client/pkg/ytvideo"
)

type videoInfo struct {
	VideoRef     string `json:"video_ref"`
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

// handleLoadVideo validates the submitted url and rejects it before any
// write happens; only urls that yield a video id reach the reconciler.
func (c controller) handleLoadVideo(sess *session.Session, writer *wsWriter) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
		var input loadVideoInput
		if err := json.Unmarshal(payload, &input); err != nil {
			return err
		}
		if validationErrors, ok := c.validate.Validate(input); !ok {
			return validationError(validationErrors)
		}

		videoRef, err := ytvideo.ExtractId(input.URL)
		if err != nil {
			return fmt.Errorf("not a recognized video url: %w", err)
		}

		if err := sess.Intent(syncer.LocalIntent{Kind: syncer.IntentLoadVideo, VideoRef: videoRef}); err != nil {
			if err == session.ErrPermissionDenied {
				return fmt.Errorf("only the host can load a video")
			}
			return err
		}

		// metadata is display sugar; failing to resolve it never fails the load
		if data, err := ytvideo.GetData(videoRef); err == nil {
			writer.WriteJSON(&Output{Type: "VIDEO_INFO", Payload: videoInfo{
				VideoRef:     videoRef,
				Title:        data.Title,
				AuthorName:   data.AuthorName,
				ThumbnailUrl: data.ThumbnailUrl,
			}})
		} else {
			c.logger.DebugContext(ctx, "failed to resolve video metadata", "video_ref", videoRef, "error", err)
		}

		return nil
	}
}
