package providers

const (
	// Identifier for ipapi.co.
	NameIPAPI = "ipapi"

	// Identifier for ip2c.org.
	NameIP2C = "ip2c"

	// Identifier for ipinfo.io.
	NameIPInfo = "ipinfo"

	// Identifier for ipstack.com
	NameIPStack = "ipstack"

	// Identifier for tools.keycdn.com.
	NameKeyCDN = "keycdn"

	// Identifier for local MaxMind GeoIP2/GeoLite2 City databases.
	NameMaxmind = "maxmind"
)
