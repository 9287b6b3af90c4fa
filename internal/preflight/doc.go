// Package preflight provides readiness checks for the directories, session
// store and catalog account that dupereview depends on.
//
// The "dupereview doctor" command runs RunAll and prints each Result. The
// review command runs CheckCatalog before opening the interactive screen so a
// bad API key is reported up front rather than on the first lookup.
package preflight
