package model

import "time"

// HistoricRecord is one durable (date, total) observation from a
// previously processed update.
type HistoricRecord struct {
	Date  time.Time
	Total int
}
