// Package workflow holds the task assignment rules that do not touch storage.
// It covers the task state machine and benefactor eligibility, and the
// authorization gate built on both.
//
// Everything here is a pure function of the entities passed in. The services
// package loads entities, asks this package what is allowed, and persists the
// outcome through the repository compare-and-set primitive.
package workflow
