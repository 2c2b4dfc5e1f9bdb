package main

import (
	"context"

	"go.uber.org/zap"
)

type Consumer interface {
	Consume(ctx context.Context) error
}

// backupConsumer replicates every published snapshot into a backup store.
type backupConsumer struct {
	logger *zap.Logger
	queue  Queuer
	backup KeyValueStore
}

func NewBackupConsumer(logger *zap.Logger, q Queuer, backup KeyValueStore) Consumer {
	return &backupConsumer{logger, q, backup}
}

// Consume runs until the context is done.
func (bc *backupConsumer) Consume(ctx context.Context) error {
	for {
		snap, err := bc.queue.Pop(ctx)
		if err != nil && ctx.Err() != nil {
			bc.logger.Info("consumer: queue pop call: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		}

		if err != nil {
			bc.logger.Error("consumer: error on queue pop call", zap.Error(err))
			continue
		}

		if snap.Deleted {
			if err = bc.backup.Delete(ctx, snap.Key); err != nil {
				bc.logger.Error("consumer: failed to delete backup key", zap.String("key", snap.Key), zap.Error(err))
				continue
			}
			bc.logger.Debug("consumer: backup key deleted", zap.String("key", snap.Key), zap.Time("at", snap.At))
			continue
		}

		if err = bc.backup.Set(ctx, snap.Key, snap.Value); err != nil {
			bc.logger.Error("consumer: failed to write backup", zap.String("key", snap.Key), zap.Error(err))
			continue
		}
		bc.logger.Debug("consumer: backup written", zap.String("key", snap.Key), zap.Time("at", snap.At), zap.Int("size", len(snap.Value)))
	}
}
