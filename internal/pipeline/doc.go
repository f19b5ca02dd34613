// Package pipeline orchestrates a meeting run end to end: ledger
// idempotency check, action-item extraction, destination classification
// with per-task overrides, and duplicate reconciliation against the task
// source's snapshot of each destination list. The output is a Plan that
// an external tracker client can execute; once tasks exist, Complete
// records the meeting in the ledger so it is never processed twice.
package pipeline
