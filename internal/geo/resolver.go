// Package geo maps client addresses to human-readable origin labels using a
// local MaxMind database. Lookups are pure: no network calls, no side effects.
package geo

import (
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

const (
	// LocalLabel is returned for loopback and private addresses.
	LocalLabel = "Local"
	// UnknownLabel is returned when no location can be determined.
	UnknownLabel = "Unknown"
)

// Resolver resolves origin labels. A Resolver with no database is valid and
// labels every public address as unknown.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads a GeoLite2/GeoIP2 database from path. An empty path yields a
// resolver that still handles local addresses but knows no geography.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return &Resolver{}, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Resolver{reader: reader}, nil
}

// Close releases the underlying database, if any.
func (r *Resolver) Close() error {
	if r.reader == nil {
		return nil
	}
	return r.reader.Close()
}

// Resolve returns a label for the address. It never fails: malformed input
// and lookup misses both degrade to the unknown label.
func (r *Resolver) Resolve(addr string) string {
	ip := net.ParseIP(strings.TrimSpace(addr))
	if ip == nil {
		return UnknownLabel
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return LocalLabel
	}
	if r.reader == nil {
		return UnknownLabel
	}
	record, err := r.reader.City(ip)
	if err != nil || record == nil || record.Country.IsoCode == "" {
		return UnknownLabel
	}
	if city := strings.TrimSpace(record.City.Names["en"]); city != "" {
		return city
	}
	return countryName(record.Country.IsoCode)
}

// countryName maps an ISO country code to a display name, falling back to the
// raw code for anything not in the table.
func countryName(code string) string {
	if name, ok := countryNames[code]; ok {
		return name
	}
	return code
}

var countryNames = map[string]string{
	"CN": "China",
	"US": "United States",
	"GB": "United Kingdom",
	"JP": "Japan",
	"KR": "South Korea",
	"FR": "France",
	"DE": "Germany",
	"CA": "Canada",
	"AU": "Australia",
	"IN": "India",
	"BR": "Brazil",
	"RU": "Russia",
	"IT": "Italy",
	"ES": "Spain",
	"MX": "Mexico",
	"ID": "Indonesia",
	"NL": "Netherlands",
	"SA": "Saudi Arabia",
	"TR": "Turkey",
	"CH": "Switzerland",
	"TW": "Taiwan",
	"HK": "Hong Kong",
	"SG": "Singapore",
	"MY": "Malaysia",
	"TH": "Thailand",
	"VN": "Vietnam",
	"PH": "Philippines",
}
