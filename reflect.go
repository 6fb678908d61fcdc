package parcel

import (
	"iter"
	"reflect"
	"slices"
)

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// allocSteps splits the field index path idx at every hop through a
// struct pointer. Each segment can be followed with FieldByIndex once
// the pointer ending the previous segment has been checked for nil, or
// allocated.
//
// [structField.GetWithZero] and [structField.GetWithAlloc] walk these
// segments to reach fields promoted from embedded struct pointers.
func allocSteps(t reflect.Type, idx []int) [][]int {
	var (
		steps [][]int
		cur   []int
	)
	for i, fi := range idx {
		if i > 0 && t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct {
			steps = append(steps, cur)
			cur = nil
			t = t.Elem()
		}
		cur = append(cur, fi)
		t = t.Field(fi).Type
	}
	return append(steps, cur)
}

// structFields yields the fields of t in declaration order. Fields of
// embedded structs are spliced in at the embedding position, except
// for the [Inline] marker which is yielded as itself. Every yielded
// field's Index is the full path from t.
func structFields(t reflect.Type, prefix []int) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		walkFields(t, prefix, yield)
	}
}

func walkFields(t reflect.Type, prefix []int, yield func(reflect.StructField) bool) bool {
	for i := range t.NumField() {
		f := t.Field(i)
		path := append(slices.Clip(prefix), i)
		if et := derefType(f.Type); f.Anonymous && et.Kind() == reflect.Struct && et != inlineType {
			if !walkFields(et, path, yield) {
				return false
			}
			continue
		}
		f.Index = path
		if !yield(f) {
			return false
		}
	}
	return true
}
