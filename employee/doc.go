// Package employee holds the employee resource: its record type, payload
// validation and the five handlers (create, list, get, update, delete) that
// translate a request into a single Store operation.
//
// Two variants are supported. The authenticated variant stamps every record
// with the caller as owner and only lets the owner read, update or delete it.
// The unauthenticated variant ignores ownership and relies on existence
// preconditions alone.
package employee
