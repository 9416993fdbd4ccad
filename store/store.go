// Package store holds the read-only records served by the GraphQL API: teams,
// equipments and supplies.  A Store is built once (from literals or a fixture
// file) and never changes afterwards, so it can be shared by any number of
// concurrent readers without locking.
package store

// store.go has the record types and the Store accessors

type (
	// Team is one team of the office
	Team struct {
		ID              int    `json:"id"`
		Manager         string `json:"manager"`
		Office          string `json:"office"`
		ExtensionNumber string `json:"extension_number" gql:"extension_number"`
		Mascot          string `json:"mascot"`
		CleaningDuty    string `json:"cleaning_duty" gql:"cleaning_duty"`
		Project         string `json:"project"`
	}

	// Equipment is a kind of equipment and who uses it
	Equipment struct {
		ID        string `json:"id"`
		UsedBy    string `json:"used_by" gql:"used_by"`
		Count     int    `json:"count"`
		NewOrUsed string `json:"new_or_used" gql:"new_or_used#either new or used"` // ConditionNew or ConditionUsed
	}

	// Supply is an office supply belonging to a team.  Team is the ID of a Team but
	// nothing checks that such a team exists.
	Supply struct {
		ID   string `json:"id"`
		Team int    `json:"team"`
	}

	// Store is the immutable collection of all records.  The zero value is an empty store.
	Store struct {
		teams      []Team
		equipments []Equipment
		supplies   []Supply
	}
)

// Values of Equipment.NewOrUsed
const (
	ConditionNew  = "new"
	ConditionUsed = "used"
)

// New creates a store from the given records, keeping their order.  The slices are
// copied so the caller can't change the store afterwards.
func New(teams []Team, equipments []Equipment, supplies []Supply) *Store {
	return &Store{
		teams:      append([]Team(nil), teams...),
		equipments: append([]Equipment(nil), equipments...),
		supplies:   append([]Supply(nil), supplies...),
	}
}

// Teams returns a copy of all the teams in their original order
func (s *Store) Teams() []Team {
	return append(make([]Team, 0, len(s.teams)), s.teams...)
}

// Equipments returns a copy of all the equipments in their original order
func (s *Store) Equipments() []Equipment {
	return append(make([]Equipment, 0, len(s.equipments)), s.equipments...)
}

// Supplies returns a copy of all the supplies in their original order
func (s *Store) Supplies() []Supply {
	return append(make([]Supply, 0, len(s.supplies)), s.supplies...)
}

// Team finds the first team with the given ID. The 2nd return value is false if there is none.
func (s *Store) Team(id int) (Team, bool) {
	for _, t := range s.teams {
		if t.ID == id {
			return t, true
		}
	}
	return Team{}, false
}

// SuppliesOf returns the supplies that belong to team (ie Supply.Team == teamID), keeping
// their original relative order.  The returned slice is never nil.
func (s *Store) SuppliesOf(teamID int) []Supply {
	r := make([]Supply, 0)
	for _, supply := range s.supplies {
		if supply.Team == teamID {
			r = append(r, supply)
		}
	}
	return r
}
