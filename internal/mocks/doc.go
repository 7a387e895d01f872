// Package mocks provides hand-rolled mock implementations of the
// application's store and service interfaces for use in tests.
package mocks
