package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"github.com/Skotchmaster/tourbook/pkg/events"
	"github.com/Skotchmaster/tourbook/pkg/logging"
)

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// publish never fails the caller: the write already happened.
func publish(ctx context.Context, pub events.Publisher, topic, key string, event map[string]any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			slog.String("topic", topic),
			slog.Any("type", event["type"]),
			slog.Any("error", err),
		)
	}
}
