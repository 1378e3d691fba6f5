// Package preflight provides readiness checks for the directories and
// backends bookvoice depends on.
//
// The CLI "bookvoice check" command runs RunAll and renders one status line
// per Result. Checks never return errors; failures are reported through
// Result.Detail so every check is shown even when an earlier one fails.
package preflight
