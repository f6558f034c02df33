package model

import (
	"encoding/json"
	"strconv"
)

// Record is a single JSON object returned by the LIS API.
//
// Design decision: We keep upstream objects as generic maps instead of
// typed structs because every endpoint returns more fields than the walkers
// care about, and the archive must carry all of them. Walkers read the few
// identifier fields they need through the accessors below and only ever add
// child fields (AgencyList, Body, ...) on top of what the API returned.
type Record map[string]any

// Text returns the value of key as a string.
// Strings are returned as-is and JSON numbers are formatted without loss.
// The second return value is false when the key is missing, null, or an
// empty string, which is how the API marks an absent identifier.
func (r Record) Text(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}

	var s string
	switch val := v.(type) {
	case string:
		s = val
	case json.Number:
		s = val.String()
	case float64:
		s = strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		s = strconv.Itoa(val)
	case bool:
		s = strconv.FormatBool(val)
	default:
		return "", false
	}

	if s == "" {
		return "", false
	}
	return s, true
}

// Without returns a shallow copy of r with the given keys removed.
func (r Record) Without(keys ...string) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Records converts a decoded JSON array into a slice of Records.
// Elements that are not objects are dropped. A nil or non-array value
// yields an empty, non-nil slice so it serializes as [].
func Records(v any) []Record {
	arr, ok := v.([]any)
	if !ok {
		return []Record{}
	}

	out := make([]Record, 0, len(arr))
	for _, item := range arr {
		if rec, ok := AsRecord(item); ok {
			out = append(out, rec)
		}
	}
	return out
}

// AsRecord returns v as a Record if it is a JSON object.
func AsRecord(v any) (Record, bool) {
	switch val := v.(type) {
	case Record:
		return val, true
	case map[string]any:
		return Record(val), true
	default:
		return nil, false
	}
}

// First returns the object held by v.
// Detail endpoints answer either with an object or with a one-element
// array around it; both shapes are accepted.
func First(v any) (Record, bool) {
	if rec, ok := AsRecord(v); ok {
		return rec, true
	}
	if arr, ok := v.([]any); ok && len(arr) > 0 {
		return AsRecord(arr[0])
	}
	return nil, false
}

// List extracts a child list from an API response.
//
// The LIS API is inconsistent about how it wraps lists: some endpoints
// answer with a bare array, others with an object holding the array under
// a field such as "AgencyList" or "Sections", and a few wrap that object in
// a one-element array. List looks for the first of keys at each of these
// fixed depths:
//
//	$            (bare array)
//	$.<key>      (object holding the list)
//	$[*].<key>   (array of objects holding lists, concatenated)
//
// An unrecognised shape yields an empty, non-nil slice.
func List(v any, keys ...string) []Record {
	if rec, ok := AsRecord(v); ok {
		for _, key := range keys {
			if child, ok := rec[key]; ok {
				return Records(child)
			}
		}
		return []Record{}
	}

	arr, ok := v.([]any)
	if !ok {
		return []Record{}
	}

	// An array of wrappers: every element carries one of the keys.
	var nested []Record
	wrapped := len(arr) > 0
	for _, item := range arr {
		rec, ok := AsRecord(item)
		if !ok {
			wrapped = false
			break
		}
		found := false
		for _, key := range keys {
			if child, ok := rec[key]; ok {
				nested = append(nested, Records(child)...)
				found = true
				break
			}
		}
		if !found {
			wrapped = false
			break
		}
	}
	if wrapped {
		if nested == nil {
			nested = []Record{}
		}
		return nested
	}

	return Records(arr)
}
