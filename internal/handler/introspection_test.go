package handler_test

import (
	"encoding/json"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/teamql/teamql/internal/handler"
)

type (
	introspectQuery struct {
		A    Nested
		Find func(int) *Nested `gql:"find(id)"`
	}
	Nested struct {
		V    int
		List []bool
	}
)

const (
	introspectSchema = `"Descr. Q" type Query { a:Nested! find(id: Int! = 1): Nested } ` +
		`"Description N" type Nested { v:Int! list:[Boolean!] }`
)

// nonNull is the expected introspection result for type "T!" where T is a named type of the given kind
func nonNull(kind, name string) JsonObject {
	return JsonObject{"kind": "NON_NULL", "name": nil, "ofType": JsonObject{"kind": kind, "name": name}}
}

func TestIntrospection(t *testing.T) {
	introspectionData := map[string]struct {
		query    string      // GraphQL query to send to the handler (query syntax)
		expected interface{} // expected result after decoding the returned JSON
	}{
		"QueryTypeName": {
			query:    "{ __typename }",
			expected: JsonObject{"__typename": "Query"},
		},
		"QueryType": {
			query: "{ __schema { queryType { name kind description } } }",
			expected: JsonObject{"__schema": JsonObject{"queryType": JsonObject{
				"name": "Query", "kind": "OBJECT", "description": "Descr. Q",
			}}},
		},
		"NoMutationType": {
			query:    "{ __schema { mutationType { name } subscriptionType { name } } }",
			expected: JsonObject{"__schema": JsonObject{"mutationType": nil, "subscriptionType": nil}},
		},
		"TypeQuery": {
			query:    `{ __type(name:\"Query\") { name } }`,
			expected: JsonObject{"__type": JsonObject{"name": "Query"}},
		},
		"TypeInt": {
			query:    `{ __type(name:\"Int\") { name kind fields { name } } }`,
			expected: JsonObject{"__type": JsonObject{"name": "Int", "kind": "SCALAR", "fields": nil}},
		},
		"TypeNested": {
			query:    `{ __type(name:\"Nested\") { name kind description } }`,
			expected: JsonObject{"__type": JsonObject{"name": "Nested", "kind": "OBJECT", "description": "Description N"}},
		},
		"TypeUnknown": {
			query:    `{ __type(name:\"Unknown\") { name } }`,
			expected: JsonObject{"__type": nil},
		},
		"Args": {
			query: `{ __type(name:\"Query\") { fields { name args { name defaultValue type { kind } } } } }`,
			expected: JsonObject{"__type": JsonObject{"fields": []interface{}{
				JsonObject{"name": "a", "args": []interface{}{}},
				JsonObject{"name": "find", "args": []interface{}{
					JsonObject{"name": "id", "defaultValue": "1", "type": JsonObject{"kind": "NON_NULL"}},
				}},
			}}},
		},
		"TypeList": {
			query: `{ __type(name:\"Nested\") { fields { name type { name kind ofType { name kind ofType { name kind } } } } } }`,
			expected: JsonObject{"__type": JsonObject{"fields": []interface{}{
				JsonObject{
					"name": "v",
					"type": JsonObject{
						"name":   nil,
						"kind":   "NON_NULL",
						"ofType": JsonObject{"name": "Int", "kind": "SCALAR", "ofType": nil},
					},
				},
				JsonObject{
					"name": "list",
					"type": JsonObject{
						"name":   nil,
						"kind":   "LIST",
						"ofType": nonNull("SCALAR", "Boolean"),
					},
				},
			}}},
		},
	}

	h := handler.New(introspectSchema, introspectQuery{A: Nested{V: 1}})
	for name, testData := range introspectionData {
		t.Run(name, func(t *testing.T) {
			status, body := postQuery(h, testData.query, "")
			if status != http.StatusOK {
				t.Fatalf("Unexpected response code %d", status)
			}

			var result struct {
				Data   interface{}
				Errors []struct{ Message string }
			}
			if err := json.Unmarshal(body, &result); err != nil {
				t.Fatalf("Error decoding JSON: %v", err)
			}
			Assertf(t, result.Errors == nil, "Expected no error and got %v", result.Errors)
			Assertf(t, reflect.DeepEqual(result.Data, testData.expected), "Expected %v, got %v", testData.expected, result.Data)
		})
	}
}

// TestSchemaTypes checks that the list of all types is sorted and includes our types and the built-in scalars
func TestSchemaTypes(t *testing.T) {
	h := handler.New(introspectSchema, introspectQuery{})
	status, body := postQuery(h, `{ __schema { types { name } directives { name locations } } }`, "")
	Assertf(t, status == http.StatusOK, "Expected status OK, got %d", status)

	var result struct {
		Data struct {
			Schema struct {
				Types      []struct{ Name string }
				Directives []struct {
					Name      string
					Locations []string
				}
			} `json:"__schema"`
		}
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Error decoding JSON: %v", err)
	}
	names := make([]string, 0, len(result.Data.Schema.Types))
	for _, typ := range result.Data.Schema.Types {
		names = append(names, typ.Name)
	}
	for _, want := range []string{"Boolean", "Int", "Nested", "Query", "String", "__Schema", "__Type"} {
		found := false
		for _, name := range names {
			found = found || name == want
		}
		Assertf(t, found, "Expected type %q in %v", want, names)
	}
	for i := 1; i < len(names); i++ {
		Assertf(t, names[i-1] < names[i], "Expected types in order but %q is before %q", names[i-1], names[i])
	}

	directives := make(map[string][]string)
	for _, d := range result.Data.Schema.Directives {
		directives[d.Name] = d.Locations
	}
	for _, want := range []string{"skip", "include", "deprecated"} {
		_, ok := directives[want]
		Assertf(t, ok, "Expected directive %q in %v", want, directives)
	}
	Assertf(t, reflect.DeepEqual(directives["skip"], []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"}),
		"Expected skip locations, got %v", directives["skip"])
}

// TestNoIntrospection checks that introspection queries fail when turned off (but __typename is still available)
func TestNoIntrospection(t *testing.T) {
	h := handler.New(introspectSchema, introspectQuery{A: Nested{V: 1}}, handler.NoIntrospection(true))

	_, body := postQuery(h, `{ __schema { queryType { name } } }`, "")
	Assertf(t, strings.Contains(string(body), "introspection has been disabled"), "Expected disabled error, got %s", body)

	_, body = postQuery(h, `{ __typename a { v } }`, "")
	const expected = `{"data":{"__typename":"Query","a":{"v":1}}}`
	Assertf(t, string(body) == expected, "Expected %s, got %s", expected, body)
}
