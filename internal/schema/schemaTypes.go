package schema

// schemaTypes.go contains the schema type which accumulates all the GraphQL types to be added to the schema

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teamql/teamql/internal/field"
)

// schema stores all the types of the schema accumulated so far
type schema struct {
	declaration map[string]string       // text declaration of all types generated, keyed by GraphQL type name
	usedAs      map[reflect.Type]string // tracks which structs we have seen (mainly to handle recursive data structures)
}

// newSchemaTypes initialises an instance of the schema (by making the maps)
func newSchemaTypes() schema {
	return schema{
		declaration: make(map[string]string),
		usedAs:      make(map[reflect.Type]string),
	}
}

// add creates a GraphQL object/input declaration as a string to be added to the schema and
// adds it to the map (using the type name as the key) avoiding adding the same type twice
// Parameters:
//
//	name = name for the type (if an empty string the Go type name is used)
//	t = the Go type used to generate the GraphQL type declaration (pointers and lists are followed)
//	gqlType = "type" for a GraphQL object or "input" for an input object (resolver argument)
//
// Returns an error if the type could not be added, eg if the same struct is used as an "input"
// type (ie resolver parameter) and as an "object" type
func (s schema) add(name string, t reflect.Type, gqlType string) error {
	t = field.BaseType(t)
	if t.Kind() != reflect.Struct {
		return nil // ignore it if not a struct (this is *not* an error situation)
	}
	if name == "" {
		name = t.Name()
	}

	// Check if we have already seen this struct
	if previousType, ok := s.usedAs[t]; ok {
		if previousType != gqlType {
			return fmt.Errorf("can't use %q for different GraphQL types (%s and %s)", name, previousType, gqlType)
		}
		return nil // already done
	}
	s.usedAs[t] = gqlType

	// Get all the resolvers from the exported struct fields
	resolvers, err := s.getResolvers(t, gqlType)
	if err != nil {
		return fmt.Errorf("%w in type %q", err, name)
	}
	keys := make([]string, 0, len(resolvers))
	for k := range resolvers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	builder := &strings.Builder{}
	builder.WriteString(gqlType)
	builder.WriteRune(' ')
	builder.WriteString(name)
	builder.WriteString(openString)
	for _, k := range keys {
		builder.WriteString(resolvers[k])
	}
	builder.WriteString(closeString)

	// Check for use of the same name for different objects
	if existing, ok := s.declaration[name]; ok && existing != builder.String() {
		return fmt.Errorf("same name (%s) used for multiple objects", name)
	}
	s.declaration[name] = builder.String()
	return nil
}

// getResolvers finds all the exported fields (including functions) of a struct and creates resolvers for them.
// Fields of an embedded struct are added as if they were fields of the parent struct.
// Nested resolvers (named nested structs) are handled by a recursive call to s.add().
// Returns a map of resolvers where the key is the resolver name and the value is the whole GraphQL field
// declaration (including any description and a trailing newline).
func (s schema) getResolvers(t reflect.Type, gqlType string) (map[string]string, error) {
	r := make(map[string]string)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fieldInfo, err := field.Get(&f)
		if err != nil {
			return nil, fmt.Errorf("%w getting field %q", err, f.Name)
		}
		if fieldInfo == nil {
			continue // ignore unexported field
		}

		if fieldInfo.Embedded {
			embedded, err := s.getResolvers(fieldInfo.ResultType, gqlType)
			if err != nil {
				return nil, fmt.Errorf("%w in embedded struct %q", err, f.Name)
			}
			for k, v := range embedded {
				if _, ok := r[k]; ok {
					return nil, fmt.Errorf("two fields with the same name %q", k)
				}
				r[k] = v
			}
			continue
		}

		if !validGraphQLName(fieldInfo.Name) {
			return nil, fmt.Errorf("%q is not a valid name", fieldInfo.Name)
		}
		if gqlType == gqlInputType && f.Type.Kind() == reflect.Func {
			return nil, fmt.Errorf("input field %q cannot be a function", fieldInfo.Name)
		}

		// Name to use for an anonymous struct - upper-case 1st letter of the field name
		first, n := utf8.DecodeRuneInString(f.Name)
		anonName := string(unicode.ToUpper(first)) + f.Name[n:]

		typeName := fieldInfo.GQLTypeName
		if typeName != "" {
			if err = validateTypeName(typeName, fieldInfo.ResultType); err != nil {
				return nil, fmt.Errorf("resolver type of field %q not recognized: %w", fieldInfo.Name, err)
			}
		} else if typeName, err = getTypeName(fieldInfo.ResultType, anonName); err != nil {
			return nil, fmt.Errorf("%w getting type for %q", err, fieldInfo.Name)
		}
		if !fieldInfo.Nullable {
			typeName += "!"
		}

		params, err := s.getParams(f.Type, fieldInfo)
		if err != nil {
			return nil, fmt.Errorf("%w getting args for %q", err, fieldInfo.Name)
		}

		if _, ok := r[fieldInfo.Name]; ok {
			// Note that this would be caught by gqlparser.LoadSchema but we may as well signal it earlier
			return nil, fmt.Errorf("two fields with the same name %q", fieldInfo.Name)
		}
		builder := &strings.Builder{}
		writeDescription(builder, "  ", fieldInfo.Description)
		builder.WriteString("  ")
		builder.WriteString(fieldInfo.Name)
		builder.WriteString(params)
		builder.WriteString(": ")
		builder.WriteString(typeName)
		builder.WriteRune('\n')
		r[fieldInfo.Name] = builder.String()

		// Also add nested struct types (if any) to our collection
		if err = s.add(strings.Trim(typeName, "[]!"), fieldInfo.ResultType, gqlType); err != nil {
			return nil, err
		}
	}
	return r, nil
}

const paramStart, paramSep, paramEnd = "(", ", ", ")"

// getParams creates the list of GraphQL arguments for a resolver function, eg "(id: Int!)"
// If any arg uses a Go struct then it also adds the corresponding GraphQL "input" type to the schema
func (s schema) getParams(t reflect.Type, fieldInfo *field.Info) (string, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem() // follow indirection
	}
	if t.Kind() != reflect.Func || len(fieldInfo.Args) == 0 {
		return "", nil
	}

	builder := &strings.Builder{}
	sep := paramStart
	firstIndex := 0
	if fieldInfo.HasContext {
		firstIndex++ // context.Context parameter is not a GraphQL argument
	}
	for paramNum, name := range fieldInfo.Args {
		if !validGraphQLName(name) {
			return "", fmt.Errorf("argument %q is not a valid name", name)
		}
		param := t.In(firstIndex + paramNum)

		// Work out the argument type from the tag (if given) or the Go parameter type
		typeName := fieldInfo.ArgTypes[paramNum]
		if typeName != "" {
			if err := validateTypeName(typeName, param); err != nil {
				return "", fmt.Errorf("argument %q type: %w", name, err)
			}
		} else {
			// Default type name for anon struct is the argument name with the 1st letter upper-cased
			first, n := utf8.DecodeRuneInString(name)
			var err error
			if typeName, err = getTypeName(param, string(unicode.ToUpper(first))+name[n:]); err != nil {
				return "", fmt.Errorf("argument %q type: %w", name, err)
			}
		}
		if param.Kind() != reflect.Ptr {
			typeName += "!"
		}

		builder.WriteString(sep)
		if desc := fieldInfo.ArgDescriptions[paramNum]; desc != "" {
			builder.WriteString(quoteString(desc))
			builder.WriteRune(' ')
		}
		builder.WriteString(name)
		builder.WriteString(": ")
		builder.WriteString(typeName)

		// Add the default value (if any) after an equals sign
		if value := fieldInfo.ArgDefaults[paramNum]; value != "" {
			if !validLiteral(typeName, value) {
				return "", fmt.Errorf("argument %q default value %q is not of the correct type", name, value)
			}
			builder.WriteString(" = ")
			builder.WriteString(value)
		}

		// If it's a struct we also need to add the "input" type to our collection
		if err := s.add(strings.Trim(typeName, "[]!"), param, gqlInputType); err != nil {
			return "", fmt.Errorf("%w adding INPUT type %q", err, typeName)
		}
		sep = paramSep
	}
	builder.WriteString(paramEnd)
	return builder.String(), nil
}

// writeDescription adds a GraphQL description (a string before the declaration) if desc is not empty
func writeDescription(builder *strings.Builder, indent, desc string) {
	if desc == "" {
		return
	}
	builder.WriteString(indent)
	builder.WriteString(quoteString(desc))
	builder.WriteRune('\n')
}

// quoteString returns s as a GraphQL string literal.  Only the escapes allowed in GraphQL are used (Go
// escapes such as \a, \x00 and \U0001F600 are not valid GraphQL).
func quoteString(s string) string {
	const hex = "0123456789abcdef"

	builder := strings.Builder{}
	builder.Grow(len(s) + 2)
	builder.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			builder.WriteByte('\\')
			builder.WriteRune(r)
		case '\b':
			builder.WriteString(`\b`)
		case '\f':
			builder.WriteString(`\f`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			if r < 0x20 || r == 0x7f {
				builder.WriteString(`\u00`)
				builder.WriteByte(hex[r>>4])
				builder.WriteByte(hex[r&0xf])
			} else {
				builder.WriteRune(r) // invalid UTF-8 has already become utf8.RuneError
			}
		}
	}
	builder.WriteByte('"')
	return builder.String()
}
