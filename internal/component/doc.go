// Package component decides which text tokens are electronic component
// identifiers and classifies identifiers seen on a schematic against the
// identifiers declared in a spreadsheet.
//
// Identifiers are compared in canonical form (see Normalize). A token is an
// identifier when it is exactly one configured prefix followed by one or more
// decimal digits (see PrefixSet). Classify derives the five condition sets
// from two occurrence counters, and Classification.ConditionOf resolves the
// single display condition for an identifier using a fixed priority order.
package component
