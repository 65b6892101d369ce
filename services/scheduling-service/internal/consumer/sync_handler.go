package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/brotasbeauty/scheduler/services/scheduling-service/internal/model"
)

type Syncer interface {
	SyncAppointments(ctx context.Context, batch []model.SyncRecord, lastSync time.Time) model.SyncResult
}

// SyncHandler applies offline batches published by field devices.
func SyncHandler(s Syncer, logger *slog.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		var batch model.SyncBatch
		if err := json.Unmarshal(msg.Value, &batch); err != nil {
			return Permanent(fmt.Errorf("decode sync batch: %w", err))
		}
		res := s.SyncAppointments(ctx, batch.Records, batch.LastSync)

		failed := 0
		for _, ack := range res.Updates {
			if !ack.Synced {
				failed++
			}
		}
		logger.Info("sync batch applied", "records", len(res.Updates), "failed", failed, "key", string(msg.Key))
		return nil
	}
}
