package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"happy-jasmine/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// Channel is the Postgres notification channel fed by the visit_counts trigger
const Channel = "visit_counts"

// DefaultReconnectDelay is how long the listener waits after losing its connection
const DefaultReconnectDelay = 2 * time.Second

// Listener forwards visit_counts notifications to a broker
type Listener struct {
	dsn            string
	broker         *Broker
	logger         *zap.Logger
	reconnectDelay time.Duration
}

// NewListener creates a listener. Run starts it.
func NewListener(dsn string, broker *Broker, logger *zap.Logger) *Listener {
	return &Listener{
		dsn:            dsn,
		broker:         broker,
		logger:         logger,
		reconnectDelay: DefaultReconnectDelay,
	}
}

// Run listens until ctx is cancelled, reconnecting after failures.
// Notifications sent while disconnected are lost.
func (l *Listener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			l.logger.Info("Realtime listener stopped")
			return
		}

		l.logger.Warn("Realtime listener disconnected",
			zap.Error(err),
			zap.Duration("retry_in", l.reconnectDelay),
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", Channel, err)
	}
	l.logger.Info("Realtime listener connected", zap.String("channel", Channel))

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}

		visit, err := DecodeNotification(notification.Payload)
		if err != nil {
			l.logger.Warn("Dropping malformed notification",
				zap.String("payload", notification.Payload),
				zap.Error(err),
			)
			continue
		}

		l.broker.Publish(visit.PageType, NewEvent(visit))
	}
}

// DecodeNotification parses the JSON payload built by notify_visit_count_change
func DecodeNotification(payload string) (domain.VisitCount, error) {
	var visit domain.VisitCount
	if err := json.Unmarshal([]byte(payload), &visit); err != nil {
		return domain.VisitCount{}, err
	}
	if visit.PageType == "" {
		return domain.VisitCount{}, errors.New("notification without page_type")
	}
	return visit, nil
}
