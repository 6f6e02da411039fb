package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/football-stats-service/internal/model"
)

const (
	maxOpponentLen = 100
	maxNameLen     = 100
	maxNotesLen    = 2000
	maxMinutes     = 150
	maxYellowCards = 2
	maxRedCards    = 1
	// per player and game; both fit the INTEGER columns with room to spare
	maxGoals   = 50
	maxAssists = 50
	// per side of a final score
	maxScore = 99
)

var validate = validator.New()

// parseDate accepts a calendar date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

func normalizeLocation(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return model.LocationHome, true
	case "away":
		return model.LocationAway, true
	}
	return "", false
}

func normalizePosition(s string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goalkeeper":
		return model.PositionGoalkeeper, true
	case "defender":
		return model.PositionDefender, true
	case "midfielder":
		return model.PositionMidfielder, true
	case "forward":
		return model.PositionForward, true
	}
	return "", false
}

// validateGame normalizes in and returns the game to persist plus any field errors.
func validateGame(in GameInput) (model.Game, []FieldError) {
	var ferrs []FieldError
	var g model.Game

	if strings.TrimSpace(in.Date) == "" {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be set"})
	} else if d, ok := parseDate(in.Date); !ok {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "must be YYYY-MM-DD or RFC3339"})
	} else {
		g.Date = d
	}

	g.Opponent = strings.TrimSpace(in.Opponent)
	if g.Opponent == "" {
		ferrs = append(ferrs, FieldError{Field: "opponent", Message: "must not be empty"})
	} else if utf8.RuneCountInString(g.Opponent) > maxOpponentLen {
		ferrs = append(ferrs, FieldError{Field: "opponent", Message: fmt.Sprintf("length must be <= %d", maxOpponentLen)})
	}

	if loc, ok := normalizeLocation(in.Location); ok {
		g.Location = loc
	} else {
		ferrs = append(ferrs, FieldError{Field: "location", Message: "must be one of Home, Away"})
	}

	if in.GoalsFor < 0 || in.GoalsFor > maxScore {
		ferrs = append(ferrs, FieldError{Field: "goals_for", Message: fmt.Sprintf("must be between 0 and %d", maxScore)})
	}
	if in.GoalsAgainst < 0 || in.GoalsAgainst > maxScore {
		ferrs = append(ferrs, FieldError{Field: "goals_against", Message: fmt.Sprintf("must be between 0 and %d", maxScore)})
	}
	g.GoalsFor, g.GoalsAgainst = in.GoalsFor, in.GoalsAgainst
	return g, ferrs
}

// validateStatsRows checks every line of a batch; fields are reported as stats[i].name.
func validateStatsRows(rows []model.StatsRow) []FieldError {
	var ferrs []FieldError
	seen := make(map[int64]int, len(rows))
	for i, r := range rows {
		field := func(name string) string { return fmt.Sprintf("stats[%d].%s", i, name) }
		if r.PlayerID <= 0 {
			ferrs = append(ferrs, FieldError{Field: field("player_id"), Message: "must be > 0"})
		} else if first, dup := seen[r.PlayerID]; dup {
			ferrs = append(ferrs, FieldError{Field: field("player_id"), Message: fmt.Sprintf("duplicates stats[%d]", first)})
		} else {
			seen[r.PlayerID] = i
		}
		if r.Goals < 0 || r.Goals > maxGoals {
			ferrs = append(ferrs, FieldError{Field: field("goals"), Message: fmt.Sprintf("must be between 0 and %d", maxGoals)})
		}
		if r.Assists < 0 || r.Assists > maxAssists {
			ferrs = append(ferrs, FieldError{Field: field("assists"), Message: fmt.Sprintf("must be between 0 and %d", maxAssists)})
		}
		if r.MinutesPlayed < 0 || r.MinutesPlayed > maxMinutes {
			ferrs = append(ferrs, FieldError{Field: field("minutes_played"), Message: fmt.Sprintf("must be between 0 and %d", maxMinutes)})
		}
		if r.YellowCards < 0 || r.YellowCards > maxYellowCards {
			ferrs = append(ferrs, FieldError{Field: field("yellow_cards"), Message: fmt.Sprintf("must be between 0 and %d", maxYellowCards)})
		}
		if r.RedCards < 0 || r.RedCards > maxRedCards {
			ferrs = append(ferrs, FieldError{Field: field("red_cards"), Message: fmt.Sprintf("must be between 0 and %d", maxRedCards)})
		}
	}
	return ferrs
}

// validatePlayer normalizes in into p. Photo handling is left to the caller.
func validatePlayer(in PlayerInput, p *model.Player) []FieldError {
	var ferrs []FieldError

	p.Name = strings.TrimSpace(in.Name)
	if p.Name == "" {
		ferrs = append(ferrs, FieldError{Field: "name", Message: "must not be empty"})
	} else if utf8.RuneCountInString(p.Name) > maxNameLen {
		ferrs = append(ferrs, FieldError{Field: "name", Message: fmt.Sprintf("length must be <= %d", maxNameLen)})
	}

	if pos, ok := normalizePosition(in.Position); ok {
		p.Position = pos
	} else {
		ferrs = append(ferrs, FieldError{Field: "position", Message: "must be one of Goalkeeper, Defender, Midfielder, Forward"})
	}

	p.BirthDate = nil
	if s := strings.TrimSpace(in.BirthDate); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		switch {
		case err != nil:
			ferrs = append(ferrs, FieldError{Field: "birth_date", Message: "must be YYYY-MM-DD"})
		case d.After(time.Now()):
			ferrs = append(ferrs, FieldError{Field: "birth_date", Message: "must not be in the future"})
		default:
			p.BirthDate = &d
		}
	}

	p.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if p.PhoneNumber != "" {
		if err := validate.Var(p.PhoneNumber, "max=32,printascii"); err != nil {
			ferrs = append(ferrs, FieldError{Field: "phone_number", Message: "must be printable and <= 32 characters"})
		}
	}
	p.Mail = strings.TrimSpace(in.Mail)
	if p.Mail != "" {
		if err := validate.Var(p.Mail, "email"); err != nil {
			ferrs = append(ferrs, FieldError{Field: "mail", Message: "must be a valid email address"})
		}
	}
	if utf8.RuneCountInString(in.Notes) > maxNotesLen {
		ferrs = append(ferrs, FieldError{Field: "notes", Message: fmt.Sprintf("length must be <= %d", maxNotesLen)})
	}
	return ferrs
}

func requirePositive(field string, id int64) []FieldError {
	if id <= 0 {
		return []FieldError{{Field: field, Message: "must be > 0"}}
	}
	return nil
}
