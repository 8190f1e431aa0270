package service

import (
	"github.com/deppfellow/gameday/internal/repository"
	"github.com/deppfellow/gameday/internal/server"
)

// Services groups every business service the handlers depend on.
type Services struct {
	Teams *TeamService
	Games *GameService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Teams: NewTeamService(s, repos.Teams, repos.Games),
		Games: NewGameService(s, repos.Games),
	}, nil
}
