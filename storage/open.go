package storage

import (
	"fmt"

	"classic-snake/game/manager"
)

// Store kinds accepted by Open.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Open returns the store of the given kind rooted at dir.
func Open(kind, dir string) (manager.Store, error) {
	switch kind {
	case KindJSON, "":
		return NewJSONStore(dir)
	case KindSQLite:
		return NewSQLiteStore(dir)
	case KindMemory:
		return manager.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", kind)
	}
}
