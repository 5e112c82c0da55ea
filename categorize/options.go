package categorize

import (
	"reflect"

	"github.com/npillmayer/categorizer/model"
)

// CategoryRole reads the raw key of a bucket, as opposed to its rendered label.
const CategoryRole = model.UserRole

// Option configures a categorizer at construction time.
type Option func(*Categorizer)

// WithKeyField sets the source field the key is read from. Default is 0.
func WithKeyField(field int) Option {
	return func(c *Categorizer) {
		c.keyField = field
	}
}

// WithKeyRole sets the role the key is read with. Default is model.DisplayRole.
func WithKeyRole(role model.Role) Option {
	return func(c *Categorizer) {
		c.keyRole = role
	}
}

// WithEquality sets the predicate deciding if two keys belong to the same bucket.
func WithEquality(equal func(a, b model.Value) bool) Option {
	return func(c *Categorizer) {
		if equal != nil {
			c.equal = equal
		}
	}
}

// WithLabel sets the function rendering bucket labels from keys. It is called for
// every role except CategoryRole when field 0 of a bucket is read.
func WithLabel(label func(key model.Value, role model.Role) model.Value) Option {
	return func(c *Categorizer) {
		if label != nil {
			c.label = label
		}
	}
}

// WithConsistencyChecks turns on verification of all invariants after every
// source notification. Violations panic.
func WithConsistencyChecks(on bool) Option {
	return func(c *Categorizer) {
		c.checks = on
	}
}

// SameKey is the default key equality: keys of comparable types are compared
// with ==, others are compared deeply. Keys of different types are never equal.
func SameKey(a, b model.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// KeyLabel is the default label function: the key itself, for model.DisplayRole.
func KeyLabel(key model.Value, role model.Role) model.Value {
	if role == model.DisplayRole {
		return key
	}
	return nil
}
