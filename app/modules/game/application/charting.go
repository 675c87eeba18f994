package gameservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	gamedomain "github.com/Black-And-White-Club/ulti-bot/app/modules/game/domain"
	gamedb "github.com/Black-And-White-Club/ulti-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/operation"
	"github.com/Black-And-White-Club/ulti-bot/pkg/utils/results"
	"github.com/uptrace/bun"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette is the colour set used by score charts. Lines cycles per player.
type ChartPalette struct {
	Background drawing.Color
	TextColor  drawing.Color
	Lines      []drawing.Color
}

// DefaultPalette is a green felt table with one line colour per seat.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorFromHex("f4f1e8"),
	TextColor:  drawing.ColorFromHex("1b2a21"),
	Lines: []drawing.Color{
		drawing.ColorFromHex("b23a48"),
		drawing.ColorFromHex("2d6a4f"),
		drawing.ColorFromHex("d4a017"),
		drawing.ColorFromHex("3a5a98"),
		drawing.ColorFromHex("6d4c41"),
	},
}

// ScoreChart renders each player's running total per round as a PNG.
func (s *GameService) ScoreChart(ctx context.Context, id int64) ([]byte, error) {
	return operation.Run(s.runner, ctx, "ScoreChart", strconv.FormatInt(id, 10), func(ctx context.Context, db bun.IDB) (results.OperationResult[[]byte, error], error) {
		snap, err := s.snapshotByID(ctx, db, id)
		if err != nil {
			if errors.Is(err, gamedb.ErrNotFound) {
				return results.FailureResult[[]byte, error](err), nil
			}
			return results.OperationResult[[]byte, error]{}, err
		}

		data, err := RenderScoreChart(snap.game, s.palette)
		if err != nil {
			return results.OperationResult[[]byte, error]{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return results.SuccessResult[[]byte, error](data), nil
	})
}

// RenderScoreChart draws one line per player over the game's score history.
// A game without rounds renders a placeholder.
func RenderScoreChart(g gamedomain.Game, palette ChartPalette) ([]byte, error) {
	if g.RoundCount() == 0 {
		return renderNoDataPlaceholder(palette)
	}

	history := g.ScoreHistory()
	xValues := make([]float64, len(history))
	for i := range history {
		xValues[i] = float64(i)
	}

	lo, hi := 0.0, 0.0
	series := make([]chart.Series, 0, len(g.Players))
	for i, p := range g.Players {
		yValues := make([]float64, len(history))
		for j, row := range history {
			v := float64(row[p])
			yValues[j] = v
			lo, hi = min(lo, v), max(hi, v)
		}
		colour := palette.Lines[i%len(palette.Lines)]
		series = append(series, chart.ContinuousSeries{
			Name:    playerLabel(p),
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: colour,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    colour,
			},
		})
	}

	// go-chart refuses a zero-height range.
	lo, hi = lo-1, hi+1

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name: "Round",
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return ""
			},
			Style: chart.Style{FontColor: palette.TextColor},
		},
		YAxis: chart.YAxis{
			Name:  "Score",
			Style: chart.Style{FontColor: palette.TextColor},
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(palette ChartPalette) ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No rounds played yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{Style: chart.Hidden()},
		// go-chart needs one visible series; draw it in the background colour.
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeColor: palette.Background, StrokeWidth: 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
