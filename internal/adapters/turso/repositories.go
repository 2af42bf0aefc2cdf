package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/pausa/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Counter  ports.CounterRepository
	Outcomes ports.OutcomeRepository
	Stats    ports.StatsRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Counter:  NewCounterRepository(db),
		Outcomes: NewOutcomeRepository(db),
		Stats:    NewStatsRepository(db),
	}
}
