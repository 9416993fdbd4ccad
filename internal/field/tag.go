package field

// tag.go handles extracting info from the "gql:" tag string (from struct field metadata)

import (
	"errors"
	"fmt"
	"strings"
)

// GetInfoFromTag extracts GraphQL field name and type info from the field's tag (if any)
// If the tag just contains a dash (-) then nil is returned (no error).  If the tag string is empty
// (e.g. if no tag was supplied) then the returned Info is not nil but the Name field is empty.
//
// The tag has the form  name(args):Type,option,option#description  where every part is optional.
func GetInfoFromTag(tag string) (*Info, error) {
	if tag == "-" {
		return nil, nil // this field is to be ignored
	}
	parts, description, err := SplitWithDesc(tag)
	if err != nil {
		return nil, fmt.Errorf("%w splitting tag %q", err, tag)
	}

	fieldInfo, err := getMain(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w resolver %q of tag %q", err, parts[0], tag)
	}
	for _, part := range parts[1:] {
		switch part {
		case "":
			// ignore empty sections
		case "nullable":
			fieldInfo.Nullable = true
		default:
			if strings.HasPrefix(part, "args") {
				return nil, errors.New(`add arguments (in brackets) after the resolver name, not as an option`)
			}
			return nil, fmt.Errorf("unknown option %q in %q", part, tag)
		}
	}
	fieldInfo.Description = strings.TrimSpace(description)
	return fieldInfo, nil
}

// getMain handles the first part of the tag which may just be the resolver name (or even empty), but can
// also include a type after a colon (:) and resolver arguments (comma-separated and within brackets), where
// each argument can have a name, type (after :), default value (after =) and description (after #).
func getMain(s string) (r *Info, err error) {
	r = &Info{}

	// Name comes first unless the string starts with the type or args
	i := strings.IndexAny(s, ":(")
	if i == -1 {
		r.Name = s
		return
	}
	r.Name, s = s[:i], s[i:]

	// Trailing type - only look for the colon after the closing bracket of the args
	if colon := strings.LastIndexByte(s, ':'); colon > strings.LastIndexByte(s, ')') {
		r.GQLTypeName = s[colon+1:]
		s = s[:colon]
	}
	if s == "" {
		return
	}

	list, err := getBracketedList(s)
	if err != nil {
		return nil, fmt.Errorf("%w getting resolver args", err)
	}
	r.Args = make([]string, len(list))
	r.ArgTypes = make([]string, len(list))
	r.ArgDefaults = make([]string, len(list))
	r.ArgDescriptions = make([]string, len(list))
	for n, arg := range list {
		if i := strings.IndexByte(arg, '#'); i > -1 {
			r.ArgDescriptions[n] = strings.TrimSpace(arg[i+1:])
			arg = arg[:i]
		}
		if i := strings.IndexByte(arg, '='); i > -1 {
			r.ArgDefaults[n] = strings.TrimSpace(arg[i+1:])
			arg = arg[:i]
		}
		if i := strings.IndexByte(arg, ':'); i > -1 {
			r.ArgTypes[n] = strings.TrimSpace(arg[i+1:])
			arg = arg[:i]
		}
		r.Args[n] = strings.TrimSpace(arg)
		if r.Args[n] == "" {
			return nil, fmt.Errorf("argument %d has no name", n+1)
		}
	}
	return
}

// getBracketedList gets a list of values from a string enclosed in round brackets, eg for "(a,b=2)" it
// returns {"a", "b=2"}.  Empty brackets give an empty (non-nil) list.
func getBracketedList(s string) ([]string, error) {
	last := len(s) - 1
	if last < 1 || s[0] != '(' || s[last] != ')' {
		return nil, fmt.Errorf("arguments %q not in brackets", s)
	}
	s = strings.Trim(s[1:last], " ")
	if s == "" {
		return []string{}, nil
	}
	return SplitArgs(s)
}
