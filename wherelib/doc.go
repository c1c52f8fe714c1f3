// This package provides a set of structs and functions which are used
// to capture visitor locations and keep them.
//
// wherelib is core of the whereabouts project. The rest of the
// application wires it: it chooses a storage, builds providers from a
// configuration and starts an HTTP server.
//
// Whereabouts is a main entity of the wherelib. It is an http.Handler
// which serves an entry page, accepts submissions, enriches them with
// IP geolocation if a client has not shared coordinates and persists
// them in a Storage.
//
// Locator is an Enricher which asks a set of pluggable providers about
// an IP address and merges their answers into a single Enrichment.
package wherelib
