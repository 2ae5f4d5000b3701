// Package event consumes the listing lifecycle topics. The handlers only
// log today; they are the hook point for downstream automation.
package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/openclaw/lister/internal/storage/mq"
)

// Service is the event service.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

// New creates a new event service.
func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := registerHandler(s.mqConsumer, TopicListingRegistered, s.handleListingRegistered); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicListingRejected, s.handleListingRejected); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicListingApproved, s.handleListingApproved); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicListingRequeued, s.handleListingRequeued); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicListingAbandoned, s.handleListingAbandoned); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

func registerHandler[T any](consumer mq.Consumer, topic string, handle func(context.Context, T) error) error {
	if err := consumer.RegisterHandler(
		topic,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev T
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal %s event: %w", topic, err)
			}

			if err := handle(ctx, ev); err != nil {
				return fmt.Errorf("handle %s event: %w", topic, err)
			}

			return nil
		},
	); err != nil {
		return fmt.Errorf("register %s event handler: %w", topic, err)
	}

	return nil
}
