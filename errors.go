package query

import "github.com/pkg/errors"

var (
	// ErrNonUniqueResult is returned by FetchOne when more than one row matches.
	ErrNonUniqueResult = errors.New("query: more than one row returned for a unique result")
	// ErrNoResult is returned by NativeQuery.GetSingleResult when no row matches.
	ErrNoResult = errors.New("query: no result")
	// ErrNoSource is returned when a query has no FROM entity.
	ErrNoSource = errors.New("query: no source entity")
	// ErrInTransaction is returned by Begin on a factory already bound to a transaction.
	ErrInTransaction = errors.New("query: already in a transaction")
	// ErrUnsupportedProjection is returned when the projection cannot be scanned into the result type.
	ErrUnsupportedProjection = errors.New("query: unsupported projection")
)
