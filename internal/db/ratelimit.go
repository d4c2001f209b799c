package db

import (
	"time"

	"gorm.io/gorm"
)

// RateLimiter counts events per address inside a trailing window, backed by a
// log table. Check and record are deliberately separate steps: two requests
// from one address can both pass the check before either records, which is an
// accepted tolerance given the windows run in minutes.
type RateLimiter struct {
	conn   *gorm.DB
	table  string
	window time.Duration
	max    int64
}

// NewRateLimiter returns a limiter over the given log table. The table must
// have `ip` and `timestamp` (epoch millis) columns.
func NewRateLimiter(conn *gorm.DB, table string, window time.Duration, max int64) *RateLimiter {
	return &RateLimiter{conn: conn, table: table, window: window, max: max}
}

// Allow sweeps expired rows for every address, then reports whether the given
// address still has budget in the current window. The global sweep is what
// keeps the log table bounded.
func (l *RateLimiter) Allow(ip string) (bool, error) {
	cutoff := time.Now().UnixMilli() - l.window.Milliseconds()
	if err := l.conn.Exec("DELETE FROM "+l.table+" WHERE timestamp < ?", cutoff).Error; err != nil {
		return false, err
	}
	var count int64
	err := l.conn.Table(l.table).
		Where("ip = ? AND timestamp > ?", ip, cutoff).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count < l.max, nil
}

// Record appends an event for the address. Call it only after the guarded
// action itself succeeded.
func (l *RateLimiter) Record(ip string) error {
	return l.conn.Exec(
		"INSERT INTO "+l.table+" (ip, timestamp) VALUES (?, ?)",
		ip, time.Now().UnixMilli(),
	).Error
}
