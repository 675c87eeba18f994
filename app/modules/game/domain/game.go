package gamedomain

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
)

// ID identifies a game.
type ID int64

// Roster size limits. Every round is played by three of them.
const (
	MinPlayers = 3
	MaxPlayers = 5
)

var (
	// ErrInvalidGame indicates a roster that cannot form a game.
	ErrInvalidGame = errors.New("invalid game")

	// ErrGameFinished is returned when a round is applied to a finished game.
	ErrGameFinished = errors.New("game is finished")

	// ErrNotInRoster is returned when a round names a player the game does not have.
	ErrNotInRoster = errors.New("player not in roster")
)

// Game folds settled rounds into cumulative scores. Values are never mutated
// in place; Apply and Finish return a new Game.
type Game struct {
	ID      ID
	Players []rounddomain.PlayerID
	Scores  map[rounddomain.PlayerID]int
	Rounds  []rounddomain.Record
	Active  bool
}

// NewGame starts an active game with every player on zero.
func NewGame(id ID, players []rounddomain.PlayerID) (Game, error) {
	if len(players) < MinPlayers || len(players) > MaxPlayers {
		return Game{}, fmt.Errorf("%w: %d players, want %d to %d", ErrInvalidGame, len(players), MinPlayers, MaxPlayers)
	}

	scores := make(map[rounddomain.PlayerID]int, len(players))
	for _, p := range players {
		if _, dup := scores[p]; dup {
			return Game{}, fmt.Errorf("%w: player %d listed twice", ErrInvalidGame, p)
		}
		scores[p] = 0
	}

	return Game{
		ID:      id,
		Players: slices.Clone(players),
		Scores:  scores,
		Active:  true,
	}, nil
}

// Replay rebuilds a game from its round history.
func Replay(id ID, players []rounddomain.PlayerID, rounds []rounddomain.Record) (Game, error) {
	g, err := NewGame(id, players)
	if err != nil {
		return Game{}, err
	}
	for i, rec := range rounds {
		g, err = g.Apply(rec)
		if err != nil {
			return Game{}, fmt.Errorf("replay round %d: %w", i+1, err)
		}
	}
	return g, nil
}

// HasPlayer reports whether p is on the roster.
func (g Game) HasPlayer(p rounddomain.PlayerID) bool {
	return slices.Contains(g.Players, p)
}

// Apply adds a round's deltas to the scores and appends it to the history.
// Players absent from the record keep their score. With only MinPlayers on
// the roster everybody plays, so both defender slots must be filled.
func (g Game) Apply(rec rounddomain.Record) (Game, error) {
	if !g.Active {
		return Game{}, ErrGameFinished
	}
	if len(g.Players) == MinPlayers && rec.Defender2ID == nil {
		return Game{}, fmt.Errorf("%w: defender 2 is required in a %d player game",
			rounddomain.ErrInvalidDeclaration, MinPlayers)
	}
	for p := range rec.PointDelta {
		if !g.HasPlayer(p) {
			return Game{}, fmt.Errorf("%w: %d", ErrNotInRoster, p)
		}
	}

	next := g.clone()
	for p, d := range rec.PointDelta {
		next.Scores[p] += d
	}
	next.Rounds = append(next.Rounds, rec.Clone())
	return next, nil
}

// Finish returns the game marked finished.
func (g Game) Finish() Game {
	next := g.clone()
	next.Active = false
	return next
}

// RoundCount is the number of rounds applied so far.
func (g Game) RoundCount() int { return len(g.Rounds) }

// RecentRounds returns up to n of the latest rounds, oldest first.
func (g Game) RecentRounds(n int) []rounddomain.Record {
	if n <= 0 {
		return nil
	}
	start := max(len(g.Rounds)-n, 0)
	return slices.Clone(g.Rounds[start:])
}

// ScoreHistory returns each player's running total after every round,
// starting with the zero row.
func (g Game) ScoreHistory() []map[rounddomain.PlayerID]int {
	running := make(map[rounddomain.PlayerID]int, len(g.Players))
	for _, p := range g.Players {
		running[p] = 0
	}

	history := make([]map[rounddomain.PlayerID]int, 0, len(g.Rounds)+1)
	history = append(history, maps.Clone(running))
	for _, rec := range g.Rounds {
		for p, d := range rec.PointDelta {
			running[p] += d
		}
		history = append(history, maps.Clone(running))
	}
	return history
}

func (g Game) clone() Game {
	out := g
	out.Players = slices.Clone(g.Players)
	out.Scores = maps.Clone(g.Scores)
	out.Rounds = slices.Clone(g.Rounds)
	return out
}
