package service

import "github.com/maxviazov/football-stats-service/internal/model"

// ComposeGameDetails attaches stat lines and scorers to each game, keeping the
// order of games as given. Lines for unknown games are ignored. Every detail
// carries non-nil slices.
func ComposeGameDetails(games []model.Game, lines []model.MatchStatLine) []model.GameDetail {
	byGame := make(map[int64][]model.MatchStatLine, len(games))
	for _, l := range lines {
		byGame[l.GameID] = append(byGame[l.GameID], l)
	}

	out := make([]model.GameDetail, 0, len(games))
	for _, g := range games {
		gl := byGame[g.ID]
		if gl == nil {
			gl = []model.MatchStatLine{}
		}
		out = append(out, model.GameDetail{Game: g, PlayerStats: gl, Scorers: Scorers(gl)})
	}
	return out
}

// Scorers lists players with goals in first-seen order. Several lines for the
// same player are merged into one entry with their goals summed.
func Scorers(lines []model.MatchStatLine) []model.Scorer {
	out := []model.Scorer{}
	idx := make(map[int64]int)
	for _, l := range lines {
		if l.Goals <= 0 {
			continue
		}
		if i, ok := idx[l.PlayerID]; ok {
			out[i].Goals += l.Goals
			continue
		}
		idx[l.PlayerID] = len(out)
		out = append(out, model.Scorer{PlayerID: l.PlayerID, PlayerName: l.PlayerName, Goals: l.Goals})
	}
	return out
}
