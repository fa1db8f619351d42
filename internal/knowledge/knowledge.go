// Package knowledge records the questions people ask and the step answers they received.
package knowledge

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Kind distinguishes bare questions from answered ones.
type Kind string

const (
	KindQuestion Kind = "question"
	KindQA       Kind = "qa"
)

// ErrDuplicate reports that an equivalent entry is already stored.
var ErrDuplicate = errors.New("knowledge: duplicate entry")

// Record is a stored knowledge entry.
type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store persists records in insertion order.
type Store interface {
	Insert(ctx context.Context, rec Record) error
	// Questions lists the question of every record of the given kind.
	Questions(ctx context.Context, kind Kind) ([]string, error)
	List(ctx context.Context) ([]Record, error)
	Close() error
}

// Driver names accepted by Open.
const (
	DriverJSON   = "json"
	DriverSQLite = "sqlite"
)

// Open builds the store for driver at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "", DriverJSON:
		return NewJSONStore(path), nil
	case DriverSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown knowledge driver %q", driver)
	}
}
