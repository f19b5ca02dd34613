// Package extract turns free-form meeting-notes text into structured
// action items. It locates the next-steps region of a document (or falls
// back to generic line patterns), attributes each item to an assignee,
// estimates priority, pulls supporting context from the Details section,
// and anchors a due date to the meeting date.
//
// Extraction is a pure heuristic pass: documents that match nothing yield
// an empty list, never an error.
package extract
