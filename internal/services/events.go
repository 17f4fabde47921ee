package services

import (
	"context"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Event types published on the social event queue.
const (
	EventUserRegistered = "user.registered"
	EventUserFollowed   = "user.followed"
	EventUserUnfollowed = "user.unfollowed"
	EventPostCreated    = "post.created"
	EventPostDeleted    = "post.deleted"
	EventPostLiked      = "post.liked"
	EventCommentCreated = "comment.created"
)

// EventPublisher publishes domain events. A nil publisher disables events.
type EventPublisher interface {
	PublishEvent(eventType string, payload map[string]interface{}) error
}

// AssetRemover deletes stored uploads by the path returned when they were saved.
type AssetRemover interface {
	Delete(ctx context.Context, path string) error
}

const assetDeleteTimeout = 10 * time.Second

// publishEvent is best-effort: failures are logged and never returned.
func publishEvent(pub EventPublisher, log logrus.FieldLogger, eventType string, payload map[string]interface{}) {
	if pub == nil {
		return
	}
	if err := pub.PublishEvent(eventType, payload); err != nil {
		log.WithError(err).WithField("event", eventType).Warn("failed to publish event")
	}
}

// removeAsset is best-effort: a failed deletion is logged and the caller carries on.
func removeAsset(store AssetRemover, log logrus.FieldLogger, path string) {
	if store == nil || path == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), assetDeleteTimeout)
	defer cancel()
	if err := store.Delete(ctx, path); err != nil {
		log.WithError(err).WithField("path", path).Warn("failed to delete asset")
		return
	}
	log.WithField("path", path).Debug("asset deleted")
}

func orDiscard(log logrus.FieldLogger) logrus.FieldLogger {
	if log != nil {
		return log
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
