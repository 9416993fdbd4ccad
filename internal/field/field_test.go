package field_test

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/teamql/teamql/internal/field"
)

type (
	Base   struct{ X int }
	supply struct{ ID string }
	team   struct {
		ID       int
		Supplies []supply
	}
)

func TestGet(t *testing.T) {
	getData := map[string]struct {
		data interface{} // struct with one field to analyse

		name       string
		resultType reflect.Type
		args       []string
		hasContext bool
		hasError   bool
		nullable   bool
	}{
		"Int":         {data: struct{ Count int }{}, name: "count", resultType: reflect.TypeOf(0)},
		"Initialism":  {data: struct{ ID string }{}, name: "id", resultType: reflect.TypeOf("")},
		"Initialism2": {data: struct{ URLPath string }{}, name: "urlPath", resultType: reflect.TypeOf("")},
		"CamelCase":   {data: struct{ UsedBy string }{}, name: "usedBy", resultType: reflect.TypeOf("")},
		"Tagged":      {data: struct{ UsedBy string `gql:"used_by"` }{}, name: "used_by", resultType: reflect.TypeOf("")},
		"Pointer":     {data: struct{ P *string }{}, name: "p", resultType: reflect.TypeOf(""), nullable: true},
		"Nullable":    {data: struct{ S []int `gql:",nullable"` }{}, name: "s", resultType: reflect.TypeOf([]int{}), nullable: true},
		"Slice":       {data: struct{ Teams []team }{}, name: "teams", resultType: reflect.TypeOf([]team{})},
		"Func":        {data: struct{ Teams func() []team }{}, name: "teams", resultType: reflect.TypeOf([]team{})},
		"FuncPointer": {data: struct{ Team func(int) *team `gql:"team(id)"` }{}, name: "team", resultType: reflect.TypeOf(team{}), args: []string{"id"}, nullable: true},
		"FuncContext": {data: struct{ F func(context.Context) int }{}, name: "f", resultType: reflect.TypeOf(0), hasContext: true},
		"FuncError":   {data: struct{ F func() (int, error) }{}, name: "f", resultType: reflect.TypeOf(0), hasError: true},
		"FuncAll": {
			data: struct {
				F func(context.Context, string, int) (*team, error) `gql:"(a,b)"`
			}{},
			name: "f", resultType: reflect.TypeOf(team{}), args: []string{"a", "b"}, hasContext: true, hasError: true, nullable: true,
		},
	}
	for name, data := range getData {
		t.Run(name, func(t *testing.T) {
			f := reflect.TypeOf(data.data).Field(0)
			got, err := field.Get(&f)
			Assertf(t, err == nil, "Error     : expected no error got %v", err)
			if err != nil || got == nil {
				return
			}
			Assertf(t, got.Name == data.name, "Name      : expected %q got %q", data.name, got.Name)
			Assertf(t, got.ResultType == data.resultType, "ResultType: expected %v got %v", data.resultType, got.ResultType)
			if data.args != nil {
				Assertf(t, reflect.DeepEqual(got.Args, data.args), "Args      : expected %q got %q", data.args, got.Args)
			}
			Assertf(t, got.HasContext == data.hasContext, "HasContext: expected %v got %v", data.hasContext, got.HasContext)
			Assertf(t, got.HasError == data.hasError, "HasError  : expected %v got %v", data.hasError, got.HasError)
			Assertf(t, got.Nullable == data.nullable, "Nullable  : expected %v got %v", data.nullable, got.Nullable)
		})
	}
}

func TestGetEmbedded(t *testing.T) {
	f := reflect.TypeOf(struct{ Base }{}).Field(0)
	got, err := field.Get(&f)
	Assertf(t, err == nil, "expected no error got %v", err)
	if got != nil {
		Assertf(t, got.Embedded, "expected embedded")
		Assertf(t, got.ResultType == reflect.TypeOf(Base{}), "expected result type Base got %v", got.ResultType)
	}
}

func TestGetIgnored(t *testing.T) {
	type s struct {
		private int
		Omitted int `gql:"-"`
	}
	for i := 0; i < 2; i++ {
		f := reflect.TypeOf(s{}).Field(i)
		got, err := field.Get(&f)
		Assertf(t, got == nil && err == nil, "field %q: expected nil info and no error, got %v %v", f.Name, got, err)
	}
}

func TestGetErrors(t *testing.T) {
	errorData := map[string]struct {
		data     interface{}
		errorMsg string
	}{
		"NoArgs":      {struct{ F func(int) int }{}, "no args found"},
		"ArgCount":    {struct{ F func(int) int `gql:"(a,b)"` }{}, "argument count should be 2 but is 1"},
		"NoReturn":    {struct{ F func() }{}, "must return a value"},
		"NotError":    {struct{ F func() (int, int) }{}, "2nd return must be error"},
		"ThreeReturn": {struct{ F func() (int, int, error) }{}, "too many values"},
		"ArgsNotFunc": {struct{ F int `gql:"(a)"` }{}, "non-function resolver"},
		"Embedded":    {struct{ *Base }{}, "must be a struct"},
		"BadTag":      {struct{ F int `gql:"f,unknown"` }{}, "unknown option"},
	}
	for name, data := range errorData {
		t.Run(name, func(t *testing.T) {
			f := reflect.TypeOf(data.data).Field(0)
			_, err := field.Get(&f)
			Assertf(t, err != nil && strings.Contains(err.Error(), data.errorMsg),
				"expected error containing %q got %v", data.errorMsg, err)
		})
	}
}

func TestBaseType(t *testing.T) {
	Assertf(t, field.BaseType(reflect.TypeOf([]*team{})) == reflect.TypeOf(team{}), "expected team from []*team")
	Assertf(t, field.BaseType(reflect.TypeOf([2][]int{})) == reflect.TypeOf(0), "expected int from [2][]int")
	Assertf(t, field.BaseType(reflect.TypeOf("")) == reflect.TypeOf(""), "expected string unchanged")
}

func Assertf(t *testing.T, succeeded bool, format string, args ...interface{}) {
	const (
		succeed = "✓" // tick
		failed  = "X"
	)

	t.Helper()
	if !succeeded {
		t.Errorf("%s\t"+format, append([]interface{}{failed}, args...)...)
	} else {
		t.Logf("%s\t"+format, append([]interface{}{succeed}, args...)...)
	}
}
