package schema

// validate.go has functions to help check that schema values are valid

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/teamql/teamql/internal/field"
)

var nameRegex = regexp.MustCompile(`^[_a-zA-Z][_a-zA-Z0-9]*$`)

// validGraphQLName checks that a string contains a valid GraphQL identifier like an
// argument, field or type name.
func validGraphQLName(s string) bool {
	if strings.HasPrefix(s, "__") {
		return false // reserved names
	}
	return nameRegex.MatchString(s)
}

// validLiteral checks that a string is a valid constant for a type - eg only true/false are allowed for Boolean.
// Literals for object (input) types are not checked here but are validated when the schema is loaded.
func validLiteral(typeName string, literal string) bool {
	typeName = strings.TrimSuffix(typeName, "!")

	// Check that all the values in a list are valid
	if len(typeName) > 2 && typeName[0] == '[' && typeName[len(typeName)-1] == ']' {
		if len(literal) < 2 || literal[0] != '[' || literal[len(literal)-1] != ']' {
			return false
		}
		literal = strings.TrimSpace(literal[1 : len(literal)-1])
		if literal == "" {
			return true // empty list
		}
		elements, err := field.SplitArgs(literal)
		if err != nil {
			return false
		}
		for _, element := range elements {
			if !validLiteral(typeName[1:len(typeName)-1], element) {
				return false
			}
		}
		return true
	}

	switch typeName {
	case "Boolean":
		return literal == "true" || literal == "false"
	case "Int":
		_, err := strconv.ParseInt(literal, 10, 32) // GraphQL Int is 32-bit
		return err == nil
	case "Float":
		_, err := strconv.ParseFloat(literal, 64)
		return err == nil
	case "String":
		return len(literal) > 1 && literal[0] == '"' && literal[len(literal)-1] == '"'
	case "ID":
		if _, err := strconv.Atoi(literal); err == nil {
			return true
		}
		return len(literal) > 1 && literal[0] == '"' && literal[len(literal)-1] == '"'
	}
	return true
}
