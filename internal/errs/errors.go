// Package errs defines the error taxonomy shared by the store adapters,
// the consistency coordinator and the HTTP layer.
package errs

import (
	"errors"
	"fmt"
)

// NotFound is returned when an aggregate is absent. A malformed id yields
// the same error as a missing document, so callers cannot tell the two
// apart.
type NotFound struct {
	Kind string
}

func (e *NotFound) Error() string {
	return fmt.Sprintf("no %s found", e.Kind)
}

func GameNotFound() error     { return &NotFound{Kind: "game"} }
func MetaGameNotFound() error { return &NotFound{Kind: "meta game"} }
func UserNotFound() error     { return &NotFound{Kind: "user"} }

// ContractViolation is returned when a request is missing a declared key
// or supplies it with the wrong type. Key names the offending parameter.
type ContractViolation struct {
	Key    string
	Reason string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("bad request key %q: %s", e.Key, e.Reason)
}

// Conflict is returned when a request is well-formed but the current state
// of an aggregate forbids it (game full, already joined, duplicate name).
type Conflict struct {
	Reason string
}

func (e *Conflict) Error() string {
	return e.Reason
}

// RuleViolation wraps a game engine rejection. The coordinator passes these
// through unchanged.
type RuleViolation struct {
	Reason string
}

func (e *RuleViolation) Error() string {
	return e.Reason
}

func IsNotFound(err error) bool {
	var nf *NotFound
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var c *Conflict
	return errors.As(err, &c)
}

func IsContractViolation(err error) bool {
	var cv *ContractViolation
	return errors.As(err, &cv)
}

func IsRuleViolation(err error) bool {
	var rv *RuleViolation
	return errors.As(err, &rv)
}
