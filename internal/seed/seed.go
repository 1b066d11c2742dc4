// Package seed loads teams and members from YAML fixtures:
//
//	teams:
//	  - name: teamA
//	    members:
//	      - {username: member1, age: 10}
//	members:
//	  - {username: loner, age: 50}
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dongjun6343/query"
	"github.com/dongjun6343/query/db/mapper"
	"github.com/dongjun6343/query/internal/example/model"
)

//go:embed default.yaml
var defaultFixture []byte

type Fixture struct {
	Teams []TeamFixture `yaml:"teams"`
	// Members without a team.
	Members []MemberFixture `yaml:"members"`
}

type TeamFixture struct {
	Name    string          `yaml:"name"`
	Members []MemberFixture `yaml:"members"`
}

type MemberFixture struct {
	Username string `yaml:"username"`
	Age      int    `yaml:"age"`
}

// Result counts the inserted rows.
type Result struct {
	Teams   int
	Members int
}

func Load(r io.Reader) (*Fixture, error) {
	fx := &Fixture{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(fx); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode fixture")
	}

	for _, t := range fx.Teams {
		if t.Name == "" {
			return nil, errors.New("seed: team without a name")
		}
	}
	return fx, nil
}

func LoadFile(path string) (*Fixture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open fixture %s", path)
	}
	defer f.Close()

	return Load(f)
}

// Default is the two team fixture used by the demo.
func Default() *Fixture {
	fx, err := Load(bytes.NewReader(defaultFixture))
	if err != nil {
		panic(err)
	}
	return fx
}

// Apply inserts the fixture in one transaction.
func (fx *Fixture) Apply(ctx context.Context, f *query.Factory) (*Result, error) {
	res := &Result{}
	err := f.Transactional(ctx, func(tx *query.Factory) error {
		teams, err := mapper.New[model.Team](tx)
		if err != nil {
			return err
		}
		members, err := mapper.New[model.Member](tx)
		if err != nil {
			return err
		}

		insertMembers := func(list []MemberFixture, team *model.Team) error {
			for _, m := range list {
				if _, err := members.Insert(ctx, model.NewMember(m.Username, m.Age, team)); err != nil {
					return errors.Wrapf(err, "insert member %q", m.Username)
				}
				res.Members++
			}
			return nil
		}

		for _, t := range fx.Teams {
			team := model.NewTeam(t.Name)
			if _, err := teams.Insert(ctx, team); err != nil {
				return errors.Wrapf(err, "insert team %q", t.Name)
			}
			res.Teams++

			if err := insertMembers(t.Members, team); err != nil {
				return err
			}
		}
		return insertMembers(fx.Members, nil)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
