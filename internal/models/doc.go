// Package models defines the music-library entities shared by every storage backend.
//
// The package contains three types:
//   - [Song] : an audio file with title, artist and a non-negative duration in whole seconds
//   - [Playlist] : a uniquely named, ordered collection of songs
//   - [PlaylistEntry] : one (playlist, position, song) association
//
// Identities are assigned by whichever backend persists an entity first; a zero ID means the entity has not been stored yet.
// Equality is by identity only, so two songs with identical metadata but different IDs are different songs.
//
// Entries are never constructed by callers directly. They are produced by the ordering engine when songs are appended or moved,
// and positions within one playlist always form the contiguous range 0..count-1.
package models
