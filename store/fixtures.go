package store

// fixtures.go has the built-in data and loading of replacement data from JSON

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Default returns a new store containing the built-in office data
func Default() *Store {
	return New(
		[]Team{
			{ID: 1, Manager: "Mandy", Office: "101", ExtensionNumber: "#1234", Mascot: "Horse", CleaningDuty: "Monday", Project: "Metaverse"},
			{ID: 2, Manager: "Jake", Office: "101", ExtensionNumber: "#9821", Mascot: "Tiger", CleaningDuty: "Tuesday", Project: "Blockchain"},
			{ID: 3, Manager: "Peter", Office: "102", ExtensionNumber: "#5531", Mascot: "Eagle", CleaningDuty: "Wednesday", Project: "AI"},
			{ID: 4, Manager: "Lois", Office: "201", ExtensionNumber: "#2479", Mascot: "Dolphin", CleaningDuty: "Thursday", Project: "Cloud"},
			{ID: 5, Manager: "Cleveland", Office: "202", ExtensionNumber: "#3101", Mascot: "Lion", CleaningDuty: "Friday", Project: "IoT"},
		},
		[]Equipment{
			{ID: "notebook", UsedBy: "developer", Count: 17, NewOrUsed: ConditionUsed},
			{ID: "monitor", UsedBy: "designer", Count: 12, NewOrUsed: ConditionNew},
			{ID: "mouse", UsedBy: "developer", Count: 24, NewOrUsed: ConditionNew},
			{ID: "keyboard", UsedBy: "planner", Count: 9, NewOrUsed: ConditionUsed},
			{ID: "tablet", UsedBy: "designer", Count: 4, NewOrUsed: ConditionNew},
		},
		[]Supply{
			{ID: "whiteboard", Team: 1},
			{ID: "projector", Team: 2},
			{ID: "speaker", Team: 1},
			{ID: "coffee machine", Team: 3},
			{ID: "post-it", Team: 5},
			{ID: "printer", Team: 6}, // team 6 does not exist
		},
	)
}

// fixture is the layout of a JSON data file
type fixture struct {
	Teams      []Team      `json:"teams"`
	Equipments []Equipment `json:"equipments"`
	Supplies   []Supply    `json:"supplies"`
}

// Load reads a store from JSON with "teams", "equipments" and "supplies" lists.
// Identifiers must be unique within each list, but supplies may refer to any team.
func Load(r io.Reader) (*Store, error) {
	var f fixture
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w decoding store data", err)
	}

	teamIDs := make(map[int]struct{}, len(f.Teams))
	for _, t := range f.Teams {
		if _, ok := teamIDs[t.ID]; ok {
			return nil, fmt.Errorf("team id %d is repeated", t.ID)
		}
		teamIDs[t.ID] = struct{}{}
	}
	equipmentIDs := make(map[string]struct{}, len(f.Equipments))
	for _, e := range f.Equipments {
		if _, ok := equipmentIDs[e.ID]; ok {
			return nil, fmt.Errorf("equipment id %q is repeated", e.ID)
		}
		equipmentIDs[e.ID] = struct{}{}
	}
	supplyIDs := make(map[string]struct{}, len(f.Supplies))
	for _, s := range f.Supplies {
		if _, ok := supplyIDs[s.ID]; ok {
			return nil, fmt.Errorf("supply id %q is repeated", s.ID)
		}
		supplyIDs[s.ID] = struct{}{}
	}

	return New(f.Teams, f.Equipments, f.Supplies), nil
}

// LoadFile is like Load but reads from the named file
func LoadFile(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w opening store data", err)
	}
	defer file.Close()

	s, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("%w in %q", err, path)
	}
	return s, nil
}
