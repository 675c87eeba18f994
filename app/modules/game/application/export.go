package gameservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
)

const (
	standingsSheet = "Standings"
	roundsSheet    = "Rounds"
)

// ExportScoresheet renders the game as an XLSX workbook with a standings
// sheet and a per-round sheet.
func (s *GameService) ExportScoresheet(ctx context.Context, id int64) ([]byte, error) {
	return operation.Run(s.runner, ctx, "ExportScoresheet", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		snap, err := s.snapshotByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[[]byte, error](err), nil
			}
			return results.OperationResult[[]byte, error]{}, err
		}

		names := make([]string, 0, len(snap.rounds))
		for _, r := range snap.rounds {
			names = append(names, s.bidName(r.BidID))
		}

		data, err := RenderScoresheet(snap.game, names)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
}

// snapshotByID loads and replays a game. A missing game is gamedb.ErrNotFound.
func (s *GameService) snapshotByID(ctx context.Context, db bun.IDB, id int64) (snapshot, error) {
	row, err := s.games.GetByID(ctx, db, id)
	if err != nil {
		return snapshot{}, err
	}
	return s.load(ctx, db, row)
}

// RenderScoresheet writes standings and rounds to an XLSX workbook.
// bidNames holds one display name per round, in play order.
func RenderScoresheet(g gamedomain.Game, bidNames []string) ([]byte, error) {
	if len(bidNames) != len(g.Rounds) {
		return nil, fmt.Errorf("scoresheet: %d bid names for %d rounds", len(bidNames), len(g.Rounds))
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", standingsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(roundsSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	if err := writeStandings(f, g, header); err != nil {
		return nil, err
	}
	if err := writeRounds(f, g, bidNames, header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write scoresheet: %w", err)
	}
	return buf.Bytes(), nil
}

func writeStandings(f *excelize.File, g gamedomain.Game, header int) error {
	if err := setRow(f, standingsSheet, 1, []any{"Rank", "Player", "Score"}); err != nil {
		return err
	}
	for i, st := range g.Standings() {
		if err := setRow(f, standingsSheet, i+2, []any{st.Rank, playerLabel(st.PlayerID), st.Score}); err != nil {
			return err
		}
	}
	return f.SetCellStyle(standingsSheet, "A1", "C1", header)
}

func writeRounds(f *excelize.File, g gamedomain.Game, bidNames []string, header int) error {
	cols := []any{"Round", "Bid"}
	for _, p := range g.Players {
		cols = append(cols, playerLabel(p))
	}
	if err := setRow(f, roundsSheet, 1, cols); err != nil {
		return err
	}

	for i, rec := range g.Rounds {
		row := []any{i + 1, bidNames[i]}
		for _, p := range g.Players {
			if d, ok := rec.Delta(p); ok {
				row = append(row, d)
			} else {
				row = append(row, nil)
			}
		}
		if err := setRow(f, roundsSheet, i+2, row); err != nil {
			return err
		}
	}

	total := []any{"Total", ""}
	for _, p := range g.Players {
		total = append(total, g.Scores[p])
	}
	totalRow := len(g.Rounds) + 2
	if err := setRow(f, roundsSheet, totalRow, total); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(roundsSheet, "A1", last, header); err != nil {
		return err
	}
	totalCell, err := excelize.CoordinatesToCellName(1, totalRow)
	if err != nil {
		return err
	}
	return f.SetCellStyle(roundsSheet, totalCell, totalCell, header)
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func playerLabel(p rounddomain.PlayerID) string {
	return fmt.Sprintf("Player %d", p)
}
