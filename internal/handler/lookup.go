package handler

// lookup.go is used to build lookup tables for quick lookup of resolvers

import (
	"reflect"

	"github.com/teamql/teamql/internal/field"
)

type (
	// ResolverLookupTables allows finding the resolver (struct field) for a GraphQL field name. At the top level
	// the map is keyed by struct type, then for each struct by the GraphQL field name.
	ResolverLookupTables map[reflect.Type]map[string]ResolverData

	// ResolverData has the location of a resolver in its struct plus the info obtained from its metadata
	ResolverData struct {
		Index []int // for use with reflect.Value.FieldByIndex (more than one element if in an embedded struct)
		Info  *field.Info
	}
)

// makeResolverTables builds lookup tables for all query structs of a schema (and any structs they reference).
// This allows us to quickly find the index of a field (resolver) given the struct type and resolver name.
func (h *Handler) makeResolverTables() {
	h.resolverLookup = make(ResolverLookupTables)
	for _, v := range h.qData {
		h.addLookup(v.Type())
	}
}

// addLookup gets info on all resolvers (public fields) in the parameter t.
// If t is not a struct (or pointer/list of struct) it does nothing.
func (h *Handler) addLookup(t reflect.Type) {
	t = field.BaseType(t)
	if t.Kind() != reflect.Struct {
		return
	}
	if _, ok := h.resolverLookup[t]; ok {
		return // already done (or being done if nil)
	}
	h.resolverLookup[t] = nil // Reserve this entry, so we don't do it again in recursive calls

	r := make(map[string]ResolverData, t.NumField())
	h.addFields(r, t, nil)
	h.resolverLookup[t] = r
}

// addFields adds the resolvers of struct t to r, where fields of embedded structs are "promoted" to the parent.
// Parameter index is the location of t within the parent (nil if not embedded).
func (h *Handler) addFields(r map[string]ResolverData, t reflect.Type, index []int) {
	for i := 0; i < t.NumField(); i++ {
		tField := t.Field(i)
		fieldInfo, err := field.Get(&tField)
		if err != nil {
			panic(err) // schema generation would have already found this
		}
		if fieldInfo == nil {
			continue // ignore unexported field
		}

		fieldIndex := make([]int, len(index), len(index)+1)
		copy(fieldIndex, index)
		fieldIndex = append(fieldIndex, i)

		if fieldInfo.Embedded {
			h.addFields(r, fieldInfo.ResultType, fieldIndex)
			continue
		}
		r[fieldInfo.Name] = ResolverData{Index: fieldIndex, Info: fieldInfo}
		h.addLookup(fieldInfo.ResultType)
	}
}
