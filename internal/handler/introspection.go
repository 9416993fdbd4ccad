package handler

// introspection.go implements the introspection type which handles the GraphQL __schema and __type queries

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

type (
	introspection struct {
		Schema  gqlSchema             `gql:"__schema"`
		GetType func(string) *gqlType `gql:"__type(name)"`
	}

	gqlSchema struct {
		Description      *string
		Types            []gqlType
		QueryType        gqlType
		MutationType     *gqlType
		SubscriptionType *gqlType
		Directives       []gqlDirective
	}

	gqlType struct {
		Kind              string // __TypeKind enum value
		Name, Description *string
		Fields            []gqlField      `gql:",nullable"`
		Interfaces        []gqlType       `gql:",nullable"`
		PossibleTypes     []gqlType       `gql:",nullable"`
		EnumValues        []gqlEnumValue  `gql:",nullable"`
		InputFields       []gqlInputValue `gql:",nullable"`
		OfType            *gqlType
		SpecifiedByURL    *string `gql:"specifiedByURL"`
	}

	gqlField struct {
		Name              string
		Description       *string
		Args              []gqlInputValue
		Type              gqlType
		IsDeprecated      bool
		DeprecationReason *string
	}

	gqlInputValue struct {
		Name         string
		Description  *string
		Type         gqlType
		DefaultValue *string
	}

	gqlEnumValue struct {
		Name              string
		Description       *string
		IsDeprecated      bool
		DeprecationReason *string
	}

	gqlDirective struct {
		Name         string
		Description  *string
		Locations    []string // __DirectiveLocation enum values
		Args         []gqlInputValue
		IsRepeatable bool
	}
)

// NewIntrospectionData makes the resolvers for introspection queries from a (validated) schema
func NewIntrospectionData(astSchema *ast.Schema) *introspection {
	i := &introspection{
		Schema: gqlSchema{
			Types:      make([]gqlType, 0, len(astSchema.Types)),
			Directives: make([]gqlDirective, 0, len(astSchema.Directives)),
		},
	}

	// Types and directives are sorted by name, so results are always in the same order
	names := make([]string, 0, len(astSchema.Types))
	for name := range astSchema.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		i.Schema.Types = append(i.Schema.Types, *newType(astSchema, astSchema.Types[name]))
	}

	if astSchema.Query != nil {
		i.Schema.QueryType = *newType(astSchema, astSchema.Query)
	}
	if astSchema.Mutation != nil {
		i.Schema.MutationType = newType(astSchema, astSchema.Mutation)
	}
	if astSchema.Subscription != nil {
		i.Schema.SubscriptionType = newType(astSchema, astSchema.Subscription)
	}

	names = names[:0]
	for name := range astSchema.Directives {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		i.Schema.Directives = append(i.Schema.Directives, newDirective(astSchema, astSchema.Directives[name]))
	}

	i.GetType = func(name string) *gqlType {
		defn := astSchema.Types[name]
		if defn == nil {
			return nil
		}
		return newType(astSchema, defn)
	}
	return i
}

// newType returns the full description of a named type
func newType(astSchema *ast.Schema, defn *ast.Definition) *gqlType {
	name := defn.Name
	r := &gqlType{
		Kind:        string(defn.Kind),
		Name:        &name,
		Description: optional(defn.Description),
	}
	switch defn.Kind {
	case ast.Object, ast.Interface:
		r.Fields = make([]gqlField, 0, len(defn.Fields))
		for _, f := range defn.Fields {
			if strings.HasPrefix(f.Name, "__") {
				continue // __typename etc are not listed
			}
			r.Fields = append(r.Fields, newField(astSchema, f))
		}
		r.Interfaces = make([]gqlType, 0, len(defn.Interfaces))
		for _, iface := range defn.Interfaces {
			r.Interfaces = append(r.Interfaces, namedType(astSchema, iface))
		}
		if defn.Kind == ast.Interface {
			r.PossibleTypes = possibleTypes(astSchema, defn)
		}
	case ast.Union:
		r.PossibleTypes = possibleTypes(astSchema, defn)
	case ast.Enum:
		r.EnumValues = make([]gqlEnumValue, 0, len(defn.EnumValues))
		for _, v := range defn.EnumValues {
			deprecated, reason := deprecation(v.Directives)
			r.EnumValues = append(r.EnumValues, gqlEnumValue{
				Name:              v.Name,
				Description:       optional(v.Description),
				IsDeprecated:      deprecated,
				DeprecationReason: reason,
			})
		}
	case ast.InputObject:
		r.InputFields = make([]gqlInputValue, 0, len(defn.Fields))
		for _, f := range defn.Fields {
			r.InputFields = append(r.InputFields, gqlInputValue{
				Name:         f.Name,
				Description:  optional(f.Description),
				Type:         typeRef(astSchema, f.Type),
				DefaultValue: defaultValue(f.DefaultValue),
			})
		}
	}
	return r
}

func newField(astSchema *ast.Schema, f *ast.FieldDefinition) gqlField {
	deprecated, reason := deprecation(f.Directives)
	return gqlField{
		Name:              f.Name,
		Description:       optional(f.Description),
		Args:              newArgs(astSchema, f.Arguments),
		Type:              typeRef(astSchema, f.Type),
		IsDeprecated:      deprecated,
		DeprecationReason: reason,
	}
}

func newArgs(astSchema *ast.Schema, args ast.ArgumentDefinitionList) []gqlInputValue {
	r := make([]gqlInputValue, 0, len(args))
	for _, arg := range args {
		r = append(r, gqlInputValue{
			Name:         arg.Name,
			Description:  optional(arg.Description),
			Type:         typeRef(astSchema, arg.Type),
			DefaultValue: defaultValue(arg.DefaultValue),
		})
	}
	return r
}

func newDirective(astSchema *ast.Schema, d *ast.DirectiveDefinition) gqlDirective {
	r := gqlDirective{
		Name:         d.Name,
		Description:  optional(d.Description),
		Locations:    make([]string, 0, len(d.Locations)),
		Args:         newArgs(astSchema, d.Arguments),
		IsRepeatable: d.IsRepeatable,
	}
	for _, location := range d.Locations {
		r.Locations = append(r.Locations, string(location))
	}
	return r
}

// typeRef describes the type of a field or argument, where list and non-null types wrap the named type
func typeRef(astSchema *ast.Schema, t *ast.Type) gqlType {
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		ofType := typeRef(astSchema, &inner)
		return gqlType{Kind: "NON_NULL", OfType: &ofType}
	}
	if t.Elem != nil {
		ofType := typeRef(astSchema, t.Elem)
		return gqlType{Kind: "LIST", OfType: &ofType}
	}
	return namedType(astSchema, t.NamedType)
}

// namedType is a reference to a type (just kind and name)
func namedType(astSchema *ast.Schema, name string) gqlType {
	kind := string(ast.Scalar)
	if defn := astSchema.Types[name]; defn != nil {
		kind = string(defn.Kind)
	}
	return gqlType{Kind: kind, Name: &name}
}

func possibleTypes(astSchema *ast.Schema, defn *ast.Definition) []gqlType {
	r := make([]gqlType, 0)
	for _, possible := range astSchema.GetPossibleTypes(defn) {
		r = append(r, namedType(astSchema, possible.Name))
	}
	return r
}

// deprecation checks for the @deprecated directive returning whether it's deprecated and the reason
func deprecation(directives ast.DirectiveList) (bool, *string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, nil
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return true, &reason
}

// defaultValue gets the default value of an argument as a GraphQL literal
func defaultValue(v *ast.Value) *string {
	if v == nil {
		return nil
	}
	s := v.String()
	return &s
}

// optional returns nil (for a null result) when a string is empty
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
