package dataset

import (
	"fmt"
	"strings"
)

// Role is the semantic meaning of an input column
type Role string

const (
	RoleText        Role = "text"
	RoleGame        Role = "game"
	RoleAppID       Role = "appid"
	RoleRecommended Role = "recommended"
	RoleScore       Role = "score"
	RoleLabel       Role = "label"
	RoleHelpful     Role = "helpful"
	RoleFunny       Role = "funny"
	RolePlaytime    Role = "playtime"
	RoleID          Role = "id"

	// RoleSentiment is reported when none of recommended, score or label resolve
	RoleSentiment Role = "sentiment"
)

// RoleCandidates pairs a role with the lowercase column names accepted for it,
// in preference order.
type RoleCandidates struct {
	Role       Role
	Candidates []string
}

// DefaultRoles lists every role resolved for an input file
var DefaultRoles = []RoleCandidates{
	{RoleText, []string{"review", "review_text", "text", "content"}},
	{RoleGame, []string{"app_name", "game", "title"}},
	{RoleAppID, []string{"app_id", "appid", "app"}},
	{RoleRecommended, []string{"recommended", "voted_up", "is_recommended", "recommend"}},
	{RoleScore, []string{"review_score", "score", "rating"}},
	{RoleLabel, []string{"sentiment"}},
	{RoleHelpful, []string{"review_votes", "votes_up", "votes_helpful", "helpful"}},
	{RoleFunny, []string{"votes_funny", "funny"}},
	{RolePlaytime, []string{"playtime", "author.playtime_forever", "playtime_forever"}},
	{RoleID, []string{"review_id", "id", "cid"}},
}

// timestampKeywords mark a column as a timestamp source
var timestampKeywords = []string{"time", "date", "posted", "created", "updated"}

// UnresolvedRoleError reports a required role with no matching column
type UnresolvedRoleError struct {
	Role       Role
	Candidates []string
}

func (e *UnresolvedRoleError) Error() string {
	return fmt.Sprintf("no column found for role %s (looked for %s)", e.Role, strings.Join(e.Candidates, "/"))
}

// ColumnMap is the resolved role to column assignment for one input file.
// Unresolved optional roles are empty strings.
type ColumnMap struct {
	Text        string
	Game        string
	AppID       string
	Recommended string
	Score       string
	Label       string
	Helpful     string
	Funny       string
	Playtime    string
	ID          string
	Timestamp   string
}

// FirstMatch returns the first available column whose lowercase form equals a
// candidate, trying candidates in order.
func FirstMatch(columns []string, candidates []string) (string, bool) {
	lower := make(map[string]string, len(columns))
	for _, c := range columns {
		lower[strings.ToLower(c)] = c
	}
	for _, name := range candidates {
		if col, ok := lower[name]; ok {
			return col, true
		}
	}
	return "", false
}

// TimestampColumn returns the first column whose name contains a timestamp
// keyword. ResolveColumns only offers it columns no other role claimed.
func TimestampColumn(columns []string) (string, bool) {
	for _, c := range columns {
		lc := strings.ToLower(c)
		for _, k := range timestampKeywords {
			if strings.Contains(lc, k) {
				return c, true
			}
		}
	}
	return "", false
}

// ResolveColumns maps every role in roles onto columns. Text, game identity
// (game or appid) and a sentiment source (recommended, score or label) are
// required.
func ResolveColumns(columns []string, roles []RoleCandidates) (ColumnMap, error) {
	var m ColumnMap
	candidates := make(map[Role][]string, len(roles))

	for _, rc := range roles {
		candidates[rc.Role] = rc.Candidates
		col, _ := FirstMatch(columns, rc.Candidates)
		switch rc.Role {
		case RoleText:
			m.Text = col
		case RoleGame:
			m.Game = col
		case RoleAppID:
			m.AppID = col
		case RoleRecommended:
			m.Recommended = col
		case RoleScore:
			m.Score = col
		case RoleLabel:
			m.Label = col
		case RoleHelpful:
			m.Helpful = col
		case RoleFunny:
			m.Funny = col
		case RolePlaytime:
			m.Playtime = col
		case RoleID:
			m.ID = col
		}
	}

	if m.Text == "" {
		return m, &UnresolvedRoleError{Role: RoleText, Candidates: candidates[RoleText]}
	}
	if m.Game == "" && m.AppID == "" {
		return m, &UnresolvedRoleError{
			Role:       RoleGame,
			Candidates: concat(candidates[RoleGame], candidates[RoleAppID]),
		}
	}
	if m.Recommended == "" && m.Score == "" && m.Label == "" {
		return m, &UnresolvedRoleError{
			Role:       RoleSentiment,
			Candidates: concat(candidates[RoleRecommended], candidates[RoleScore], candidates[RoleLabel]),
		}
	}

	m.Timestamp, _ = TimestampColumn(m.unbound(columns))
	return m, nil
}

// unbound drops columns already assigned to a role, so "sentiment" or
// "playtime" never double as the timestamp source
func (m ColumnMap) unbound(columns []string) []string {
	bound := map[string]bool{}
	for _, col := range []string{
		m.Text, m.Game, m.AppID, m.Recommended, m.Score, m.Label,
		m.Helpful, m.Funny, m.Playtime, m.ID,
	} {
		if col != "" {
			bound[col] = true
		}
	}
	out := make([]string, 0, len(columns))
	for _, c := range columns {
		if !bound[c] {
			out = append(out, c)
		}
	}
	return out
}

// Resolved lists the non-empty assignments, for logging
func (m ColumnMap) Resolved() map[string]string {
	out := map[string]string{}
	add := func(role Role, col string) {
		if col != "" {
			out[string(role)] = col
		}
	}
	add(RoleText, m.Text)
	add(RoleGame, m.Game)
	add(RoleAppID, m.AppID)
	add(RoleRecommended, m.Recommended)
	add(RoleScore, m.Score)
	add(RoleLabel, m.Label)
	add(RoleHelpful, m.Helpful)
	add(RoleFunny, m.Funny)
	add(RolePlaytime, m.Playtime)
	add(RoleID, m.ID)
	add("timestamp", m.Timestamp)
	return out
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
