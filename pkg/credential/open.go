package credential

import (
	"fmt"

	"github.com/germanamz/tasksolver/pkg/kv"
	"github.com/germanamz/tasksolver/pkg/kv/bolt"
	"github.com/germanamz/tasksolver/pkg/kv/memory"
	"github.com/germanamz/tasksolver/pkg/kv/sqlite"
)

// Backend names accepted by OpenBackend.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// OpenBackend opens the named kv backend. path is ignored for memory.
func OpenBackend(backend, path string) (kv.Store, error) {
	switch backend {
	case BackendMemory, "":
		return memory.New(), nil
	case BackendBolt:
		s, err := bolt.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendSQLite:
		s, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("credential: unknown store backend %q", backend)
}
