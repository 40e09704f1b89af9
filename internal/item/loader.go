package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/osse101/MinionBot_Go/internal/domain"
	"github.com/osse101/MinionBot_Go/internal/validation"
)

// Sentinel errors for the catalog loader
var (
	ErrDuplicateName = errors.New("duplicate item name")
	ErrDuplicateID   = errors.New("duplicate item id")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Schema paths
const (
	ItemsSchemaPath = "configs/schemas/items.schema.json"
)

// Config represents the JSON configuration for the item catalog
type Config struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Items []Def `json:"items"`
}

// Def represents a single item definition in the JSON
type Def struct {
	ItemID       int            `json:"item_id"`
	Name         string         `json:"name"`
	Stackable    bool           `json:"stackable"`
	Tradeable    bool           `json:"tradeable"`
	BaseValue    int            `json:"base_value"`
	EquipSlot    string         `json:"equip_slot,omitempty"`
	Requirements map[string]int `json:"requirements,omitempty"`
}

// Loader handles loading and validating the item catalog configuration
type Loader interface {
	Load(path string) (*Config, error)
	Validate(config *Config) error
	Build(config *Config) (Catalog, error)
}

type itemLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() Loader {
	return &itemLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses an items JSON file
func (l *itemLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	// Validate against schema first
	if err := l.schemaValidator.ValidateBytes(data, ItemsSchemaPath); err != nil {
		return nil, fmt.Errorf("schema validation failed for %s: %w", path, err)
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks catalog-level invariants the schema cannot express
func (l *itemLoader) Validate(config *Config) error {
	seenIDs := make(map[int]bool, len(config.Items))
	seenNames := make(map[string]bool, len(config.Items))

	for _, def := range config.Items {
		if seenIDs[def.ItemID] {
			return fmt.Errorf("%w: %d", ErrDuplicateID, def.ItemID)
		}
		seenIDs[def.ItemID] = true

		// Names collide case-insensitively; lookups are lowercased.
		lower := strings.ToLower(def.Name)
		if seenNames[lower] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, def.Name)
		}
		seenNames[lower] = true

		if def.EquipSlot != "" {
			if !validEquipSlot(domain.EquipmentSlot(def.EquipSlot)) {
				return fmt.Errorf("%w: item %s has unknown equip slot %q", ErrInvalidConfig, def.Name, def.EquipSlot)
			}
		}
	}
	return nil
}

// Build converts a validated config into a read-only Catalog
func (l *itemLoader) Build(config *Config) (Catalog, error) {
	byID := make(map[int]*domain.Item, len(config.Items))
	byName := make(map[string]*domain.Item, len(config.Items))

	for _, def := range config.Items {
		item := &domain.Item{
			ID:        def.ItemID,
			Name:      def.Name,
			Stackable: def.Stackable,
			Tradeable: def.Tradeable,
			BaseValue: def.BaseValue,
		}
		if def.EquipSlot != "" {
			slot := domain.EquipmentSlot(def.EquipSlot)
			item.EquipSlot = &slot
		}
		if len(def.Requirements) > 0 {
			item.Requirements = make(map[domain.Skill]int, len(def.Requirements))
			for skill, level := range def.Requirements {
				item.Requirements[domain.Skill(skill)] = level
			}
		}
		byID[item.ID] = item
		byName[strings.ToLower(item.Name)] = item
	}

	return &catalog{byID: byID, byName: byName}, nil
}

func validEquipSlot(slot domain.EquipmentSlot) bool {
	for _, known := range domain.AllEquipmentSlots() {
		if slot == known {
			return true
		}
	}
	return false
}
