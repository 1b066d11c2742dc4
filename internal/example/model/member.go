package model

import (
	"strconv"

	"github.com/pkg/errors"

	"github.com/dongjun6343/query/db/nullable"
	"github.com/dongjun6343/query/db/types"
)

//go:generate go run github.com/dongjun6343/query/cmd/querydsl gen -f $GOFILE -o qmodel

// ErrTransientTeam is returned when a member references a team that has not
// been saved yet.
var ErrTransientTeam = errors.New("model: member references an unsaved team")

type Member struct {
	types.TableName `tableName:"member"`
	ID              int64           `db:"id" tableField:"primary,autoIncrement" json:"id"`
	Username        nullable.String `db:"username" json:"username"`
	Age             int             `db:"age" json:"age"`
	TeamID          nullable.Int64  `db:"team_id" json:"teamId"`
	Team            *Team           `db:"-" joinColumn:"team_id" json:"-"`
}

// NewMember creates a member, optionally in team. An empty username is stored
// as NULL.
func NewMember(username string, age int, team *Team) *Member {
	m := &Member{Age: age}
	if username != "" {
		m.Username = nullable.StringFrom(username)
	}
	if team != nil {
		m.ChangeTeam(team)
	}
	return m
}

// ChangeTeam moves the member to team, keeping both sides in sync. A nil team
// detaches the member.
func (m *Member) ChangeTeam(team *Team) {
	if m.Team != nil {
		for i, other := range m.Team.Members {
			if other == m {
				m.Team.Members = append(m.Team.Members[:i], m.Team.Members[i+1:]...)
				break
			}
		}
	}

	m.Team = team
	if team == nil {
		m.TeamID = nullable.Int64{}
		return
	}
	team.Members = append(team.Members, m)
}

// PrePersist runs before the member is inserted or updated.
func (m *Member) PrePersist() error {
	if m.Team == nil {
		return nil
	}
	if m.Team.ID == 0 {
		return errors.Wrapf(ErrTransientTeam, "team %q", m.Team.Name)
	}

	m.TeamID = nullable.Int64From(m.Team.ID)
	return nil
}

func (m *Member) String() string {
	return "Member(id=" + itoa(m.ID) + ", username=" + m.Username.String() + ", age=" + strconv.Itoa(m.Age) + ")"
}

func itoa(i int64) string {
	return strconv.FormatInt(i, 10)
}
