package gamedomain

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	rounddomain "github.com/Black-And-White-Club/ulti-bot/app/modules/round/domain"
)

// Standing is one row of the score table.
type Standing struct {
	Rank     int
	PlayerID rounddomain.PlayerID
	Score    int
}

// Standings ranks players by score, highest first. Equal scores share a rank
// and are listed by player id.
func (g Game) Standings() []Standing {
	rows := make([]Standing, 0, len(g.Players))
	for _, p := range g.Players {
		rows = append(rows, Standing{PlayerID: p, Score: g.Scores[p]})
	}

	slices.SortFunc(rows, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})

	for i := range rows {
		if i > 0 && rows[i].Score == rows[i-1].Score {
			rows[i].Rank = rows[i-1].Rank
			continue
		}
		rows[i].Rank = i + 1
	}
	return rows
}

// Summarize renders a one-line round summary, attacker first.
func Summarize(bidName string, rec rounddomain.Record) string {
	parts := make([]string, 0, 3)
	for _, p := range rec.Participants() {
		parts = append(parts, fmt.Sprintf("#%d %+d", p, rec.PointDelta[p]))
	}
	return fmt.Sprintf("%s: %s", bidName, strings.Join(parts, ", "))
}
