// Package repository provides the data access layer for Zettel.
// This file contains the driver-based factory used by the entry points.
package repository

// Repositories holds all repository instances.
type Repositories struct {
	User UserRepository
	Note NoteRepository
}

// WithUserCache wraps the user repository with a read-through cache.
// The note repository is left uncached: note listings change on every
// create/delete and the home page is the only consumer.
func (r *Repositories) WithUserCache(cached *CachedUserRepository) {
	r.User = cached
}
