package infrastructure

import (
	"context"

	"menuCms/internal/modules/menus/application/port"
	"menuCms/internal/modules/menus/domain"
)

// LocalPublisher hands menu events straight to the handler registry when no broker is configured.
type LocalPublisher struct {
	registry *HandlerRegistry
}

func NewLocalPublisher(registry *HandlerRegistry) *LocalPublisher {
	return &LocalPublisher{registry: registry}
}

func (p *LocalPublisher) Publish(ctx context.Context, msg *domain.Message) error {
	return p.registry.Dispatch(ctx, msg)
}

var _ port.EventPublisher = (*LocalPublisher)(nil)
