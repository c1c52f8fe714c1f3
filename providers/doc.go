// Package providers has a set of IP geolocation providers for
// wherelib.Locator.
//
// Online providers (ipapi, ipinfo, ipstack, keycdn, ip2c) talk to
// public services with wherelib.HTTPClient so they are rate limited
// and protected by circuit breaker. Maxmind provider works with a
// local GeoLite2/GeoIP2 City database.
package providers
