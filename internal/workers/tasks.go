// internal/workers/tasks.go
package workers

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeStockRefresh = "stock:refresh"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// StockRefreshPayload identifies the outlet whose stock cache is reloaded.
type StockRefreshPayload struct {
	OutletID int64 `json:"outlet_id"`
}

// NewStockRefreshTask builds a stock refresh task for one outlet.
func NewStockRefreshTask(outletID int64) (*asynq.Task, error) {
	if outletID <= 0 {
		return nil, fmt.Errorf("invalid outlet id %d", outletID)
	}
	b, err := json.Marshal(StockRefreshPayload{OutletID: outletID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stock refresh payload: %w", err)
	}
	return asynq.NewTask(TypeStockRefresh, b), nil
}
