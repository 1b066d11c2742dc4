package model

import "github.com/dongjun6343/query/db/types"

//go:generate go run github.com/dongjun6343/query/cmd/querydsl gen -f $GOFILE -o qmodel

type Team struct {
	types.TableName `tableName:"team"`
	ID              int64     `db:"id" tableField:"primary,autoIncrement" json:"id"`
	Name            string    `db:"name" json:"name"`
	Members         []*Member `db:"-" json:"-"`
}

func NewTeam(name string) *Team {
	return &Team{Name: name}
}

func (t *Team) String() string {
	return "Team(id=" + itoa(t.ID) + ", name=" + t.Name + ")"
}
