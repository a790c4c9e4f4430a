package server

import (
	"fmt"

	"hanabi/internal/errs"
	"hanabi/internal/logger"
)

// KeySpec declares one request parameter: its name and the type it must
// carry. Types are "string", "int" or "bool".
type KeySpec struct {
	Key  string
	Type string
}

// CheckKeys verifies a parameter mapping against the declared required and
// optional keys. Every required key must be present, non-empty and
// type-matching; a present optional key must type-match. It fails on the
// first violation. Unrecognized keys are logged, never rejected.
func CheckKeys(log logger.Logger, required, optional []KeySpec, args map[string]any) error {
	for _, spec := range required {
		value, present := args[spec.Key]
		if !present {
			return &errs.ContractViolation{
				Key:    spec.Key,
				Reason: "missing required arg",
			}
		}
		if !matchesType(value, spec.Type) {
			return &errs.ContractViolation{
				Key:    spec.Key,
				Reason: fmt.Sprintf("expected %s, given %T", spec.Type, value),
			}
		}
		if text, isString := value.(string); isString && text == "" {
			return &errs.ContractViolation{
				Key:    spec.Key,
				Reason: "required arg cannot be empty string",
			}
		}
	}
	for _, spec := range optional {
		value, present := args[spec.Key]
		if !present {
			continue
		}
		if !matchesType(value, spec.Type) {
			return &errs.ContractViolation{
				Key:    spec.Key,
				Reason: fmt.Sprintf("expected %s, given %T", spec.Type, value),
			}
		}
	}

	declared := make(map[string]bool, len(required)+len(optional))
	for _, spec := range required {
		declared[spec.Key] = true
	}
	for _, spec := range optional {
		declared[spec.Key] = true
	}
	for key, value := range args {
		if !declared[key] {
			log.Debug(fmt.Sprintf("Request received unexpected parameter, %s: %v", key, value))
		}
	}
	return nil
}

// matchesType is tolerant of the way encoding/json decodes numbers: an
// int parameter arrives as a float64 and is accepted when it is whole.
func matchesType(value any, want string) bool {
	switch want {
	case "string":
		_, ok := value.(string)
		return ok
	case "int":
		switch v := value.(type) {
		case int:
			return true
		case float64:
			return v == float64(int(v))
		}
		return false
	case "bool":
		_, ok := value.(bool)
		return ok
	}
	return false
}
