// Whereabouts is a service which captures locations of visitors.
//
// A browser opens an entry page, asks a visitor for a permission to
// use geolocation and posts a phone number, a state of the permission
// and coordinates (if they are known) to the service. If coordinates are
// absent, the service estimates them by the IP address of the visitor.
// Each submission is saved as a record and all records can be seen as
// an HTML table.
//
// Tool itself is organized into 3 logical parts:
//
// Wherelib
//
// wherelib is a main package of the application. It contains
// Whereabouts struct which handles submissions, Locator which resolves
// IP addresses with a set of pluggable providers and interfaces of
// storages. Whereabouts is http.Handler.
//
// Providers
//
// This package has a set of IP geolocation providers: online services
// like ipapi.co and offline MaxMind databases.
//
// Storages
//
// Implementations of a storage for records: CSV file, PostgreSQL,
// Redis and MongoDB.
//
// A main package itself wires everything together. It starts http
// server which serves the following endpoints:
//
//   GET  /          - an entry page (index.html from static directory)
//   POST /submit    - saves a location
//   GET  /records   - an HTML table of saved locations
//   GET  /stats     - usage statistics of a storage and providers
//   GET  /static/*  - other files of static directory
package main
