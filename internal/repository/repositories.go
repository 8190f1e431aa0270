package repository

import (
	"github.com/deppfellow/gameday/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Teams *TeamRepository
	Games *GameRepository
}

// NewRepositories constructs the repository container on top of the
// server's connection pool.
func NewRepositories(s *server.Server) *Repositories {
	return NewRepositoriesWithDB(s.DB.Pool)
}

// NewRepositoriesWithDB builds the repositories on any DBTX, e.g. a test pool.
func NewRepositoriesWithDB(db DBTX) *Repositories {
	return &Repositories{
		Teams: NewTeamRepository(db),
		Games: NewGameRepository(db),
	}
}
