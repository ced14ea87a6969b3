package builder

import (
	"health-content-web/internal/adapters"
	"health-content-web/internal/store"
)

// buildTaskAdapter runs generation tasks in-process on the given executor. Requests cut off
// by shutdown are marked failed in the store.
func buildTaskAdapter(executor adapters.TaskExecutor, s store.Store) *adapters.LocalTaskAdapter {
	return adapters.NewLocalTaskAdapter(executor, s)
}
