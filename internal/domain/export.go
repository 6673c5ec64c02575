package domain

import "time"

// Export describes a catalog snapshot stored in object storage.
type Export struct {
	Key       string
	Location  string
	URL       string
	Size      int64
	Books     int
	CreatedAt time.Time
}
