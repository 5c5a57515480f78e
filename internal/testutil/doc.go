// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing tree definitions and blackboards. They are
// not intended for production usage.
package testutil
