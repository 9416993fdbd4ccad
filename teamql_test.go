package teamql_test

// End-to-end tests (also see low-level tests in the field, schema, handler and resolver packages)

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/teamql/teamql"
	"github.com/teamql/teamql/store"
)

// JsonObject is what json.Unmarshaler produces when it decodes a JSON object.  Note that we use a type alias here,
// hence the equals sign (=), rather than a type definition - otherwise cmp.Diff sees different types.
type JsonObject = map[string]interface{}

const expectedSchema = `schema {
 query: Query
}
type Equipment {
  count: Int!
  id: String!
  "either new or used"
  new_or_used: String!
  used_by: String!
}
type Query {
  "All equipment"
  equipments: [Equipment!]!
  "All supplies"
  supplies: [Supply!]!
  "The first team with the id (null if there is none)"
  team("team to find" id: Int!): Team
  "All teams, each with the supplies it owns"
  teams: [Team!]!
}
type Supply {
  id: String!
  team: Int!
}
type Team {
  cleaning_duty: String!
  extension_number: String!
  id: Int!
  manager: String!
  mascot: String!
  office: String!
  project: String!
  supplies: [Supply!]!
}
`

func TestSchema(t *testing.T) {
	s, err := teamql.Schema()
	Assertf(t, err == nil, "Expected no error, got %v", err)
	diff := cmp.Diff(expectedSchema, s)
	Assertf(t, diff == "", "Schema mismatch (-want +got):\n%s", diff)
}

// scenarioStore has one team and a supply belonging to a team that does not exist
func scenarioStore() *store.Store {
	return store.New(
		[]store.Team{{ID: 1, Manager: "Mandy", Office: "101", ExtensionNumber: "#1234", Mascot: "Horse", CleaningDuty: "Monday", Project: "Metaverse"}},
		[]store.Equipment{{ID: "notebook", UsedBy: "developer", Count: 17, NewOrUsed: store.ConditionUsed}},
		[]store.Supply{{ID: "s1", Team: 1}, {ID: "s2", Team: 2}},
	)
}

// TestQuery performs high-level (end to end) tests of GraphQL queries over HTTP
func TestQuery(t *testing.T) {
	tests := map[string]struct {
		query     string      // main part of request body (GraphQl query format)
		variables string      // if not empty: added to request body (JSON key/value pairs)
		expected  interface{} // decoded JSON data
	}{
		"Teams": {
			query: "{ teams { id manager supplies { id team } } }",
			expected: JsonObject{"teams": []interface{}{
				JsonObject{"id": 1.0, "manager": "Mandy", "supplies": []interface{}{
					JsonObject{"id": "s1", "team": 1.0},
				}},
			}},
		},
		"TeamFound": {
			query: "{ team(id: 1) { id office extension_number cleaning_duty supplies { id } } }",
			expected: JsonObject{"team": JsonObject{
				"id": 1.0, "office": "101", "extension_number": "#1234", "cleaning_duty": "Monday",
				"supplies": []interface{}{JsonObject{"id": "s1"}},
			}},
		},
		"TeamNotFound": {
			query:    "{ team(id: 2) { id } }",
			expected: JsonObject{"team": nil},
		},
		"TeamVariable": {
			query:     "query ($id: Int!) { team(id: $id) { mascot project } }",
			variables: `{"id": 1}`,
			expected:  JsonObject{"team": JsonObject{"mascot": "Horse", "project": "Metaverse"}},
		},
		"Equipments": {
			query: "{ equipments { id used_by count new_or_used } }",
			expected: JsonObject{"equipments": []interface{}{
				JsonObject{"id": "notebook", "used_by": "developer", "count": 17.0, "new_or_used": "used"},
			}},
		},
		"Supplies": {
			query: "{ supplies { id team } }",
			expected: JsonObject{"supplies": []interface{}{
				JsonObject{"id": "s1", "team": 1.0},
				JsonObject{"id": "s2", "team": 2.0},
			}},
		},
		"Aliases": {
			query: "{ a: team(id: 1) { manager } b: team(id: 3) { manager } }",
			expected: JsonObject{
				"a": JsonObject{"manager": "Mandy"},
				"b": nil,
			},
		},
		"Fragment": {
			query: "{ teams { ...names } } fragment names on Team { manager mascot }",
			expected: JsonObject{"teams": []interface{}{
				JsonObject{"manager": "Mandy", "mascot": "Horse"},
			}},
		},
		"RepeatedKey": {
			query: "{ teams { id } teams { manager } }",
			expected: JsonObject{"teams": []interface{}{
				JsonObject{"id": 1.0, "manager": "Mandy"},
			}},
		},
		"MergedFragments": {
			query: "{ team(id: 1) { ...A ...B } } fragment A on Team { manager } fragment B on Team { manager supplies { id } }",
			expected: JsonObject{"team": JsonObject{
				"manager": "Mandy", "supplies": []interface{}{JsonObject{"id": "s1"}},
			}},
		},
		"TypeName": {
			query:    "{ __typename team(id: 1) { __typename } }",
			expected: JsonObject{"__typename": "Query", "team": JsonObject{"__typename": "Team"}},
		},
	}

	server := httptest.NewServer(teamql.MustRun(scenarioStore()))
	defer server.Close()

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			inBody, _ := json.Marshal(map[string]interface{}{"query": test.query, "variables": json.RawMessage(orNull(test.variables))})
			resp, err := server.Client().Post(server.URL, "application/json", bytes.NewReader(inBody))
			if err != nil {
				t.Fatalf("Error POSTing the query: %v", err)
			}
			defer resp.Body.Close()

			var result struct {
				Data   interface{}
				Errors []struct{ Message string }
			}
			if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
				t.Fatalf("Error decoding JSON: %v", err)
			}

			Assertf(t, resp.StatusCode == http.StatusOK, "Expected status OK, got %d", resp.StatusCode)
			Assertf(t, result.Errors == nil, "Expected no error and got %v", result.Errors)
			diff := cmp.Diff(test.expected, result.Data)
			Assertf(t, diff == "", "Data mismatch (-want +got):\n%s", diff)
		})
	}
}

// TestIdempotent sends the same query twice and checks the responses are identical
func TestIdempotent(t *testing.T) {
	h := teamql.MustRun(store.Default())
	const query = `{"query":"{ teams { id supplies { id team } } team(id: 1) { supplies { id } } }"}`

	var bodies [2]string
	for i := range bodies {
		writer := httptest.NewRecorder()
		h.ServeHTTP(writer, httptest.NewRequest("POST", "/", strings.NewReader(query)))
		bodies[i] = writer.Body.String()
	}
	Assertf(t, bodies[0] == bodies[1], "Expected identical responses, got %s and %s", bodies[0], bodies[1])
	Assertf(t, strings.Contains(bodies[0], `"supplies":[{"id":"whiteboard","team":1},{"id":"speaker","team":1}]`),
		"Expected team 1 supplies in order, got %s", bodies[0])
}

func TestOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logrus.New()
	logger.SetOutput(buf)

	h, err := teamql.New(store.Default(), teamql.NoIntrospection(true), teamql.NoConcurrency(true), teamql.Logger(logger))
	Assertf(t, err == nil, "Expected no error, got %v", err)

	writer := httptest.NewRecorder()
	h.ServeHTTP(writer, httptest.NewRequest("POST", "/", strings.NewReader(`{"query":"{ __schema { queryType { name } } }"}`)))
	Assertf(t, strings.Contains(writer.Body.String(), "introspection has been disabled"),
		"Expected introspection error, got %s", writer.Body.String())
	Assertf(t, strings.Contains(buf.String(), "GraphQL request failed"), "Expected failure to be logged, got %q", buf.String())

	writer = httptest.NewRecorder()
	h.ServeHTTP(writer, httptest.NewRequest("POST", "/", strings.NewReader(`{"query":"{ team(id: 5) { manager } }"}`)))
	const expected = `{"data":{"team":{"manager":"Cleveland"}}}`
	Assertf(t, writer.Body.String() == expected, "Expected %s, got %s", expected, writer.Body.String())
}

// TestRejected checks that requests the schema doesn't support are returned as GraphQL errors
func TestRejected(t *testing.T) {
	rejectData := map[string]struct {
		query     string
		variables string
		problem   string
	}{
		"Mutation":     {`mutation { teams { id } }`, "", "does not support"},
		"UnknownField": {`{ teams { name } }`, "", "Cannot query field"},
		"WrongArgType": {`{ team(id: \"x\") { id } }`, "", "cannot represent"},
		"MissingArg":   {`{ team { id } }`, "", "is required"},
		"Syntax":       {`{ teams { id `, "", "Expected"},
		"BigId":        {`{ team(id: 4294967297) { id } }`, "", "32-bit"},
		"BigIdVar":     {`query ($id: Int!) { team(id: $id) { id } }`, `{"id": 4294967297}`, "cannot use value 4294967297 as Int"},
	}

	h := teamql.MustRun(store.Default())
	for name, data := range rejectData {
		t.Run(name, func(t *testing.T) {
			writer := httptest.NewRecorder()
			h.ServeHTTP(writer, httptest.NewRequest("POST", "/", strings.NewReader(`{"query":"`+data.query+`","variables":`+orNull(data.variables)+`}`)))

			var result struct {
				Data   interface{}
				Errors []struct{ Message string }
			}
			if err := json.Unmarshal(writer.Body.Bytes(), &result); err != nil {
				t.Fatalf("Error decoding JSON %q: %v", writer.Body.String(), err)
			}
			Assertf(t, result.Data == nil, "Expected no data, got %v", result.Data)
			Assertf(t, len(result.Errors) > 0 && strings.Contains(result.Errors[0].Message, data.problem),
				"Expected error containing %q, got %v", data.problem, result.Errors)
		})
	}
}

func orNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

// Assertf displays a tick or cross depending on the success of the test (succeeded)
// It also displays a nicely formated message if the test failed, and also displays the message for successful tests if
// all results are displayed (-v testing option) OR any other test run at the same time fails
func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "✓" // tick
		failed  = "XXXXX"  //"✗" // cross
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%-6s"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%-6s"+format, append([]interface{}{succeed}, args...)...)
	}
}
