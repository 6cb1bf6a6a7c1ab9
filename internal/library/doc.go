// Package library is the entry point for every song, playlist and entry operation.
//
// A [Library] routes each call to the primary backend while the health controller says it is
// available. When the primary reports [shared.ErrBackendUnreachable] the controller is demoted,
// which is sticky, and the same call is re-issued once against the fallback store. Callers only
// see an error if both backends fail, or if the error is about the request itself (bad position,
// duplicate name, missing entity), which is never redirected.
//
// The two backends issue identities from disjoint ranges: the fallback starts above
// [fallback.IDBase]. After a failover a playlist or song created earlier on the primary is
// reported as not found, and an identity from one backend never addresses an entity on the other.
package library
