package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/MinionBot_Go/internal/config"
	"github.com/osse101/MinionBot_Go/internal/item"
)

// LoadItemCatalog loads and validates the item catalog from its JSON config
// and builds the read-only in-memory catalog every service resolves item
// names and equip slots against.
func LoadItemCatalog() (item.Catalog, error) {
	slog.Info(LogMsgLoadingItemCatalog)
	loader := item.NewLoader()

	itemConfig, err := loader.Load(config.ConfigPathItems)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadItems, err)
	}

	catalog, err := loader.Build(itemConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildCatalog, err)
	}

	slog.Info(LogMsgItemCatalogLoaded,
		"items", len(itemConfig.Items),
		"version", itemConfig.Version)

	return catalog, nil
}
