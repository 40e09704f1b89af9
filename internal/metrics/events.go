package metrics

import (
	"context"

	"github.com/osse101/MinionBot_Go/internal/event"
	"github.com/osse101/MinionBot_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all events the collector cares about
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	eventTypes := []event.Type{
		event.TransactionApplied,
		event.TransactionTransfer,
		event.GearEquipped,
		event.GearUnequipped,
		event.GearSwapped,
		event.GearPresetEquipped,
		event.ActivityStarted,
		event.ActivityCompleted,
		event.ActivityCancelled,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}

	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.TransactionApplied:
		payload, err := event.DecodePayload[event.TransactionAppliedPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		TransactionsApplied.WithLabelValues(payload.Reason).Inc()
		ItemsGranted.Add(float64(payload.ItemsAdded.TotalItems()))
		ItemsRemoved.Add(float64(payload.ItemsRemoved.TotalItems()))

	case event.TransactionTransfer:
		TransfersCompleted.Inc()

	case event.GearEquipped, event.GearUnequipped, event.GearSwapped, event.GearPresetEquipped:
		payload, err := event.DecodePayload[event.GearChangePayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		GearOperations.WithLabelValues(string(evt.Type), payload.Setup).Inc()

	case event.ActivityStarted:
		payload, err := event.DecodePayload[event.ActivityPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		ActivitiesStarted.WithLabelValues(payload.Kind).Inc()

	case event.ActivityCompleted:
		payload, err := event.DecodePayload[event.ActivityPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		ActivitiesCompleted.WithLabelValues(payload.Kind).Inc()

	case event.ActivityCancelled:
		payload, err := event.DecodePayload[event.ActivityPayloadV1](evt.Payload)
		if err != nil {
			log.Debug(LogMsgDecodeFailed, "type", evt.Type, "error", err)
			return nil
		}
		ActivitiesCancelled.WithLabelValues(payload.Kind).Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
