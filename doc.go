// Package addonrepo holds the data model shared by the add-on repository
// synchronization packages.
//
// A [Repository] is made of one or more [Source] directories, each
// publishing a manifest of [Package] descriptions. A sync fetches every
// source's checksum, and only when the concatenation differs from the stored
// one fetches and merges the manifests, keeping the newest [Version] of each
// package. The result is stored as a [Snapshot].
//
// The packages doing the work are:
//
//   - resource: reads URLs over HTTP or from a filesystem
//   - checksum: fetches source and package checksums
//   - manifest: parses manifests and repository descriptors
//   - listing: merges and canonically encodes package listings
//   - depcheck: checks package dependencies against local state
//   - broken: acts on packages a repository marks broken
//   - reposync: runs and schedules syncs
//   - datastore: persistent state, with SQLite and PostgreSQL backends
//
// Errors returned by these packages can be inspected with [errors.Is] against
// the [ErrorKind] values in this package.
package addonrepo
