// Package storage implements employee.Store on DynamoDB and in memory.
//
// All consistency comes from DynamoDB conditional writes: creates require the
// id to be absent, updates and deletes require it to be present and, when an
// owner is given, to belong to that owner. A rejected condition is reported as
// employee.ErrConditionFailed.
package storage
