package wsrouter

import (
	"context"
	"errors"
)

var ErrUnknownMessageType = errors.New("unknown message type")

type ctxKey string

const messageTypeKey ctxKey = "message_type"

func GetMessageTypeFromCtx(ctx context.Context) string {
	messageType, _ := ctx.Value(messageTypeKey).(string)
	return messageType
}
