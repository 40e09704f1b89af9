package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/MinionBot_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Common event types
const (
	TransactionApplied  Type = "transaction.applied"
	TransactionTransfer Type = "transaction.transfer"

	GearEquipped       Type = "gear.equipped"
	GearUnequipped     Type = "gear.unequipped"
	GearSwapped        Type = "gear.swapped"
	GearPresetEquipped Type = "gear.preset_equipped"

	ActivityStarted   Type = "activity.started"
	ActivityCompleted Type = "activity.completed"
	ActivityCancelled Type = "activity.cancelled"

	UserRegistered Type = "user.registered"
)

// Typed event payloads for type safety

// TransactionAppliedPayloadV1 is the typed payload for applied transactions
type TransactionAppliedPayloadV1 struct {
	UserID       string      `json:"user_id"`
	ItemsAdded   domain.Bank `json:"items_added"`
	ItemsRemoved domain.Bank `json:"items_removed"`
	Reason       string      `json:"reason"`
	Timestamp    int64       `json:"timestamp"`
}

// TransferPayloadV1 is the typed payload for cross-user transfers
type TransferPayloadV1 struct {
	FromUserID string      `json:"from_user_id"`
	ToUserID   string      `json:"to_user_id"`
	Items      domain.Bank `json:"items"`
	Timestamp  int64       `json:"timestamp"`
}

// GearChangePayloadV1 is the typed payload for equip/unequip/swap events
type GearChangePayloadV1 struct {
	UserID    string `json:"user_id"`
	Setup     string `json:"setup"`
	Slot      string `json:"slot,omitempty"`
	ItemID    int    `json:"item_id,omitempty"`
	Quantity  int    `json:"quantity,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// UserRegisteredPayloadV1 is the typed payload for new registrations
type UserRegisteredPayloadV1 struct {
	UserID    string `json:"user_id"`
	Platform  string `json:"platform"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
}

// ActivityPayloadV1 is the typed payload for activity lifecycle events
type ActivityPayloadV1 struct {
	UserID          string `json:"user_id"`
	Kind            string `json:"kind"`
	DurationSeconds int64  `json:"duration_seconds,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewTransactionAppliedEvent creates a new transaction applied event
func NewTransactionAppliedEvent(userID string, added, removed domain.Bank, reason string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TransactionApplied,
		Payload: TransactionAppliedPayloadV1{
			UserID:       userID,
			ItemsAdded:   added,
			ItemsRemoved: removed,
			Reason:       reason,
			Timestamp:    time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewTransferEvent creates a new transfer event
func NewTransferEvent(fromUserID, toUserID string, items domain.Bank) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    TransactionTransfer,
		Payload: TransferPayloadV1{
			FromUserID: fromUserID,
			ToUserID:   toUserID,
			Items:      items,
			Timestamp:  time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewGearChangeEvent creates a gear change event of the given type
func NewGearChangeEvent(eventType Type, userID string, setup domain.GearSetupType, slot domain.EquipmentSlot, itemID, quantity int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: GearChangePayloadV1{
			UserID:    userID,
			Setup:     string(setup),
			Slot:      string(slot),
			ItemID:    itemID,
			Quantity:  quantity,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewActivityEvent creates an activity lifecycle event of the given type
func NewActivityEvent(eventType Type, userID, kind string, duration time.Duration) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    eventType,
		Payload: ActivityPayloadV1{
			UserID:          userID,
			Kind:            kind,
			DurationSeconds: int64(duration.Seconds()),
			Timestamp:       time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// NewUserRegisteredEvent creates a new user registered event
func NewUserRegisteredEvent(userID, platform, username string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    UserRegistered,
		Payload: UserRegisteredPayloadV1{
			UserID:    userID,
			Platform:  platform,
			Username:  username,
			Timestamp: time.Now().Unix(),
		},
		Metadata: nil,
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously; slow handlers belong on the worker pool.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
