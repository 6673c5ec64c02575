package service

import "bookshelf/internal/domain"

// AccessPolicy decides whether an authenticated caller may act on a book it
// did not create. With EnforceOwnership unset every authenticated caller may
// read, update and delete any book.
type AccessPolicy struct {
	EnforceOwnership bool
}

// Authorize returns ErrForbidden when ownership is enforced and the caller is not the owner.
func (p AccessPolicy) Authorize(callerID string, book *domain.Book) error {
	if !p.EnforceOwnership || book == nil {
		return nil
	}
	if book.OwnerID != callerID {
		return ErrForbidden
	}
	return nil
}

// UpsertOwner is the owner recorded on a book created by an update of a missing id.
func (p AccessPolicy) UpsertOwner(callerID string) string {
	if p.EnforceOwnership {
		return callerID
	}
	return ""
}
