// Package store persists the merged dataset into an SQLite database and
// runs the reference queries against it.
//
// Every write drops and recreates its table inside one transaction, so a
// failed run leaves the previous table in place.
package store
