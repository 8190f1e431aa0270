package service

import (
	"context"

	"github.com/deppfellow/gameday/internal/model"
	"github.com/deppfellow/gameday/internal/server"
	"github.com/rs/zerolog"
)

// GameRepository is the storage the game service needs.
type GameRepository interface {
	InsertGame(ctx context.Context, game model.NewGame) (*model.Game, error)
	GetGames(ctx context.Context) ([]model.Game, error)
	GetGameByID(ctx context.Context, id int64) (*model.Game, error)
	GetGamesByTeamID(ctx context.Context, teamID int64) ([]model.Game, error)
	UpdateGameByGameID(ctx context.Context, id int64, update model.GameUpdate) (*model.Game, error)
	DeleteGameByGameID(ctx context.Context, id int64) error
}

const sameTeamReason = "must differ from home"

type GameService struct {
	logger *zerolog.Logger
	games  GameRepository
}

func NewGameService(s *server.Server, games GameRepository) *GameService {
	return &GameService{
		logger: s.Logger,
		games:  games,
	}
}

func (s *GameService) List(ctx context.Context) ([]model.Game, error) {
	games, err := s.games.GetGames(ctx)
	if err != nil {
		return nil, mapRepositoryError(err, "Game")
	}
	return games, nil
}

func (s *GameService) Get(ctx context.Context, id int64) (*model.Game, error) {
	game, err := s.games.GetGameByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err, "Game")
	}
	return game, nil
}

// Create inserts a game. Unknown team ids surface as foreign key violations.
func (s *GameService) Create(ctx context.Context, req *model.CreateGameRequest) (*model.Game, error) {
	newGame := req.NewGame()
	if newGame.Home == newGame.Away {
		return nil, fieldError(nil, "Validation failed", "away", sameTeamReason)
	}

	game, err := s.games.InsertGame(ctx, newGame)
	if err != nil {
		return nil, mapRepositoryError(err, "Game")
	}

	loggerFrom(ctx, s.logger).Info().
		Int64("game_id", game.ID).
		Int64("home_id", game.HomeID).
		Int64("away_id", game.AwayID).
		Msg("game created")

	return game, nil
}

// Update applies the fields present in req.
//
// When only one side of the fixture changes, the other side is read from the
// stored game so the two teams stay distinct.
func (s *GameService) Update(ctx context.Context, req *model.UpdateGameRequest) (*model.Game, error) {
	update := req.Update()
	if update.Empty() {
		return nil, noFields()
	}

	if update.Home != nil || update.Away != nil {
		home, away, err := s.fixture(ctx, req.ID(), update)
		if err != nil {
			return nil, err
		}
		if home == away {
			return nil, fieldError(nil, "Validation failed", "away", sameTeamReason)
		}
	}

	game, err := s.games.UpdateGameByGameID(ctx, req.ID(), update)
	if err != nil {
		return nil, mapRepositoryError(err, "Game")
	}
	return game, nil
}

func (s *GameService) Delete(ctx context.Context, id int64) error {
	if err := s.games.DeleteGameByGameID(ctx, id); err != nil {
		return mapRepositoryError(err, "Game")
	}

	loggerFrom(ctx, s.logger).Info().Int64("game_id", id).Msg("game deleted")
	return nil
}

// fixture resolves the home and away team ids the game will have after update.
func (s *GameService) fixture(ctx context.Context, id int64, update model.GameUpdate) (int64, int64, error) {
	if update.Home != nil && update.Away != nil {
		return *update.Home, *update.Away, nil
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return 0, 0, err
	}

	home, away := current.HomeID, current.AwayID
	if update.Home != nil {
		home = *update.Home
	}
	if update.Away != nil {
		away = *update.Away
	}
	return home, away, nil
}
