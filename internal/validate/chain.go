package validate

import (
	"slices"

	"github.com/formbind/formbind/internal/field"
)

// Chain is the ordered validator sequence for one field, plus the
// issues accumulated by the last run and any custom errors attached by
// the caller. Absence of a chain for a field means "always valid".
type Chain struct {
	validators []Validator
	custom     []Issue
	run        []Issue
}

// Append adds a validator to the end of the chain.
func (c *Chain) Append(v Validator) {
	c.validators = append(c.validators, v)
}

// AddCustom attaches a caller-supplied error code without running any
// validator logic. Custom errors count against validity immediately and
// survive reruns.
func (c *Chain) AddCustom(code string) {
	c.custom = append(c.custom, Issue{Code: code})
}

// Run executes every validator against v, replacing the issues of any
// prior run. Returns whether the chain is valid afterwards. Running the
// same value twice yields identical results.
func (c *Chain) Run(v field.Value) bool {
	c.run = nil
	for _, val := range c.validators {
		c.run = append(c.run, val.Validate(v)...)
	}
	return c.Valid()
}

// Valid reports whether the chain carries no issues: neither custom
// errors nor failures from the last run.
func (c *Chain) Valid() bool {
	return len(c.custom) == 0 && len(c.run) == 0
}

// Issues returns the custom errors followed by the last run's failures.
func (c *Chain) Issues() []Issue {
	if len(c.custom) == 0 {
		return slices.Clone(c.run)
	}
	out := slices.Clone(c.custom)
	return append(out, c.run...)
}

// Codes returns the raw error codes of Issues, in order.
func (c *Chain) Codes() []string {
	issues := c.Issues()
	if len(issues) == 0 {
		return nil
	}
	codes := make([]string, len(issues))
	for i, issue := range issues {
		codes[i] = issue.Code
	}
	return codes
}

// Messages renders the chain's issues through the translator. A nil
// translator yields the raw codes.
func (c *Chain) Messages(tr Translator) []string {
	issues := c.Issues()
	if len(issues) == 0 {
		return nil
	}
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		if tr == nil {
			msgs[i] = issue.Code
			continue
		}
		msgs[i] = tr.Translate(issue.Code, issue.Params)
	}
	return msgs
}
