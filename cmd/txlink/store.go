package main

import (
	"context"

	analyticsconfig "github.com/weisyn/txlinker/internal/config/analytics"
	corestorage "github.com/weisyn/txlinker/internal/core/infrastructure/storage"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/txlinker/pkg/interfaces/infrastructure/storage"
)

type storeFactory func(ctx context.Context, cfg *analyticsconfig.Config, logger log.Logger) (storage.EventStore, error)

func defaultStoreFactory(ctx context.Context, cfg *analyticsconfig.Config, logger log.Logger) (storage.EventStore, error) {
	return corestorage.NewEventStore(ctx, cfg, logger)
}
