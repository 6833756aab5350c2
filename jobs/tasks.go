package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskLowStockScan checks every stock row against its reorder level.
	TaskLowStockScan = "inventory:low_stock_scan"
	// TaskDailySettlement closes out one day's sales and expenses.
	TaskDailySettlement = "finance:daily_settlement"
)

// LowStockScanPayload carries the low stock scan parameters.
type LowStockScanPayload struct{}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask() (*asynq.Task, error) {
	data, err := json.Marshal(LowStockScanPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}

// DailySettlementPayload names the day to settle. An empty date means
// yesterday.
type DailySettlementPayload struct {
	Date string `json:"date"`
}

// NewDailySettlementTask constructs an Asynq task.
func NewDailySettlementTask(date string) (*asynq.Task, error) {
	data, err := json.Marshal(DailySettlementPayload{Date: date})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDailySettlement, data), nil
}
