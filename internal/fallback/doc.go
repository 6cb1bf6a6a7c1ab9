// package fallback is the local store that serves the library once the primary backend is
// unavailable.
//
// State lives in memory and is authoritative. Each mutation is mirrored to a local SQLite file
// ([Mirror]) on a best-effort basis so a restarted process can reload it. Mirror failures are
// logged and never reach the caller.
package fallback
