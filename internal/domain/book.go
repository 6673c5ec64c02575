package domain

import "time"

// Book is a catalog record. OwnerID holds the id of the user that created it
// and may be empty for records created through an upsert.
type Book struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Author      string
	Price       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
