package shared

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SystemLog represents a record stored in system_log.
type SystemLog struct {
	StaffID   int64
	StaffName string
	Module    string
	Action    string
	Content   string
	IP        string
	UserAgent string
	At        time.Time
}

// SystemLogger appends operation records into system_log.
type SystemLogger struct {
	pool *pgxpool.Pool
}

// NewSystemLogger returns a new SystemLogger.
func NewSystemLogger(pool *pgxpool.Pool) *SystemLogger {
	return &SystemLogger{pool: pool}
}

// Record persists the log entry. Rows are append-only.
func (l *SystemLogger) Record(ctx context.Context, log SystemLog) error {
	if l == nil {
		return errors.New("system logger not initialised")
	}
	if log.Module == "" || log.Action == "" {
		return errors.New("system log requires module/action")
	}
	at := log.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := l.pool.Exec(ctx, `INSERT INTO system_log (staff_id, staff_name, module, action, content, ip, user_agent, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`, log.StaffID, log.StaffName, log.Module, log.Action, log.Content, log.IP, log.UserAgent, at)
	return err
}
