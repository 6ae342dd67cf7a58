/*
Package postgres implements datastore.Store for a PostgreSQL database, for
deployments where several hosts share repository listings.

SQL statements should be arranged in this package such that they're
constants in the closest scope possible to where they're used. Package
versions are compared in Go, as the database can't order them.
*/
package postgres
