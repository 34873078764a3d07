// Package specification expresses composable query predicates the
// repositories chain onto a gorm query.
package specification

import "gorm.io/gorm"

// Specification narrows or orders a query. Implementations are small
// value types so call sites read like filter lists.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
