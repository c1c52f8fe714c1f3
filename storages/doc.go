// Package storages contains implementations of wherelib.Storage.
//
// Each storage keeps records append-only and lists them from the newest
// to the oldest one. A storage is selected by a connection string with
// New: an empty string means a CSV file in the current directory.
package storages
