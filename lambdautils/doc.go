// Package lambdautils provides helpers shared by lambda entry points: access to
// the invocation metadata and a zap logger carrying it.
package lambdautils
