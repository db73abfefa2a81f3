package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/waitlist-app/database"
	"github.com/yeremiapane/waitlist-app/models"
	"github.com/yeremiapane/waitlist-app/utils"
)

// Broadcaster pushes a change to connected staff screens.
type Broadcaster interface {
	BroadcastChange(change models.StatusChange)
}

// EventPublisher forwards a change to the event bus.
type EventPublisher interface {
	PublishStatusChange(ctx context.Context, change models.StatusChange) error
}

type ChangeMonitor struct {
	Store     *database.Store
	Hub       Broadcaster
	Publisher EventPublisher
	StopChan  chan struct{}
	Interval  time.Duration
	BatchSize int
}

// NewChangeMonitor -> hub and publisher are both optional
func NewChangeMonitor(store *database.Store, hub Broadcaster, publisher EventPublisher) *ChangeMonitor {
	return &ChangeMonitor{
		Store:     store,
		Hub:       hub,
		Publisher: publisher,
		StopChan:  make(chan struct{}),
		Interval:  1 * time.Second,
		BatchSize: 100,
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	n, err := cm.ProcessPending(ctx)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("relaying status changes")
	}
	if n > 0 {
		utils.InfoLogger.WithField("count", n).Debug("status changes relayed")
	}
}

// ProcessPending relays one batch of unprocessed changes, oldest first. A publish failure stops
// the batch: rows before it are marked processed, the failed row is retried on the next tick.
// No transaction is held while the publisher or the hub is doing I/O.
func (cm *ChangeMonitor) ProcessPending(ctx context.Context) (int, error) {
	changes, err := cm.Store.PendingChanges(ctx, cm.BatchSize)
	if err != nil {
		return 0, err
	}

	var (
		delivered  []uint
		publishErr error
	)
	for _, change := range changes {
		if cm.Publisher != nil {
			if err := cm.Publisher.PublishStatusChange(ctx, change); err != nil {
				utils.ErrorLogger.WithFields(logrus.Fields{
					"change_id": change.ID,
					"entity":    change.Entity,
					"record_id": change.RecordID,
				}).WithError(err).Warn("publish failed, change left pending")
				publishErr = err
				break
			}
		}
		if cm.Hub != nil {
			cm.Hub.BroadcastChange(change)
		}
		delivered = append(delivered, change.ID)
	}

	if len(delivered) > 0 {
		if err := cm.Store.MarkChangesProcessed(ctx, delivered); err != nil {
			return 0, err
		}
	}
	return len(delivered), publishErr
}
