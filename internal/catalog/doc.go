// Package catalog is a small GraphQL client for a stash-box style scene
// catalog.
//
// It covers the three calls the review workflow needs (scene lookup by id,
// the count of pending destroy edits targeting a scene, and destroy-edit
// submission) plus an identity probe used by the doctor command. Requests are
// rate limited client-side, carry the API key in the ApiKey header, and are
// tagged with an X-Request-ID for log correlation.
package catalog
