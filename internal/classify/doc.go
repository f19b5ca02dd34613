// Package classify decides where a meeting's tasks belong in the tracker
// hierarchy. Classification is tiered: learned patterns from the pattern
// store are consulted first (title, then keyword, then participant, then
// project alias), and only when none fire does the classifier fall back to
// fuzzy-matching extracted keywords against the workspace hierarchy.
//
// A second, task-level tier runs per action item so that a single meeting
// can fan its tasks out to multiple projects. A task-level match only
// overrides the meeting-level destination when its confidence clears the
// configured override threshold.
package classify
