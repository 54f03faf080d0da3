package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Matcher is implemented by filtering specifications so that stores
// without SQL can evaluate them against a single record.
type Matcher interface {
	Matches(record interface{}) bool
}
