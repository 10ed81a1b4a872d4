// Package jsonutil handles the loosely-typed JSON that LLMs return.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling
// cases where LLMs return numbers or booleans instead of strings. Returns
// empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	return string(raw)
}

// FlexibleFloatValue converts a json.RawMessage to a float64, accepting
// both numbers and numeric strings ("0.85"). Returns ok=false for null,
// empty or non-numeric input.
func FlexibleFloatValue(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal, true
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		if parsed, err := strconv.ParseFloat(strVal, 64); err == nil {
			return parsed, true
		}
	}

	return 0, false
}

// FlexibleInt64Value converts a json.RawMessage to an int64, accepting
// numbers and numeric strings. Returns ok=false for null, empty,
// non-numeric or fractional input.
func FlexibleInt64Value(raw json.RawMessage) (int64, bool) {
	f, ok := FlexibleFloatValue(raw)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}
