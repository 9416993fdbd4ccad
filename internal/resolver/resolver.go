// Package resolver has the root query of the GraphQL API.  The Query struct type is used to
// generate the GraphQL schema and a Query value (made by New) resolves the queries using
// the records of a store.
package resolver

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql/internal/logging"
	"github.com/teamql/teamql/store"
)

type (
	// Query is the root GraphQL query.  Each field is a resolver function (closure) set by New.
	Query struct {
		Teams      func(context.Context) ([]Team, error) `gql:"#All teams, each with the supplies it owns"`
		Team       func(int) *Team                       `gql:"team(id#team to find)#The first team with the id (null if there is none)"`
		Equipments func() []store.Equipment              `gql:"#All equipment"`
		Supplies   func() []store.Supply                 `gql:"#All supplies"`
	}

	// Team is the result of a query for a team.  It has the stored fields of the team plus the
	// supplies of the team (found when the query is run).
	Team struct {
		store.Team
		Supplies []store.Supply
	}
)

// New creates the root query for a store.  Resolvers only read the store so the returned
// Query can be used by concurrent requests.  If logger is nil nothing is logged.
func New(s *store.Store, logger logrus.FieldLogger) *Query {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithField("component", "resolver")

	return &Query{
		Teams: func(ctx context.Context) ([]Team, error) {
			teams := s.Teams()
			r := make([]Team, 0, len(teams))
			for _, t := range teams {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				r = append(r, join(s, t))
			}
			logger.WithField("count", len(r)).Debug("resolved teams")
			return r, nil
		},
		Team: func(id int) *Team {
			t, ok := s.Team(id)
			if !ok {
				logger.WithField("id", id).Debug("team not found")
				return nil
			}
			r := join(s, t)
			return &r
		},
		Equipments: func() []store.Equipment {
			return s.Equipments()
		},
		Supplies: func() []store.Supply {
			return s.Supplies()
		},
	}
}

// join makes the result for a team by adding its supplies
func join(s *store.Store, t store.Team) Team {
	return Team{Team: t, Supplies: s.SuppliesOf(t.ID)}
}
