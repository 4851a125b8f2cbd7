package catalog

import (
	"fmt"
	"strings"
)

// DomainKey is the short key used in distributions and scores.
type DomainKey string

// DomainID is the long identifier used in catalog records.
type DomainID string

const (
	Domain1 DomainKey = "domain1"
	Domain2 DomainKey = "domain2"
	Domain3 DomainKey = "domain3"
	Domain4 DomainKey = "domain4"
)

const (
	DomainIDCloudConcepts DomainID = "domain1-cloud-concepts"
	DomainIDSecurity      DomainID = "domain2-security"
	DomainIDTechnology    DomainID = "domain3-technology"
	DomainIDBilling       DomainID = "domain4-billing"
)

// DomainInfo describes one exam content area.
type DomainInfo struct {
	Key       DomainKey
	ID        DomainID
	Name      string
	ShortName string

	// Weight is the fixed exam-board share of the domain. Weights sum to 1.0.
	Weight float64
}

// domains is the only place the key/id mapping and the weights are defined.
var domains = [...]DomainInfo{
	{Key: Domain1, ID: DomainIDCloudConcepts, Name: "Cloud Concepts", ShortName: "Cloud", Weight: 0.24},
	{Key: Domain2, ID: DomainIDSecurity, Name: "Security and Compliance", ShortName: "Security", Weight: 0.30},
	{Key: Domain3, ID: DomainIDTechnology, Name: "Cloud Technology and Services", ShortName: "Technology", Weight: 0.34},
	{Key: Domain4, ID: DomainIDBilling, Name: "Billing, Pricing, and Support", ShortName: "Billing", Weight: 0.12},
}

var (
	byKey = make(map[DomainKey]DomainInfo, len(domains))
	byID  = make(map[DomainID]DomainInfo, len(domains))
)

func init() {
	for _, d := range domains {
		byKey[d.Key] = d
		byID[d.ID] = d
	}
}

// Domains returns all domains in canonical order.
func Domains() []DomainInfo {
	out := make([]DomainInfo, len(domains))
	copy(out, domains[:])
	return out
}

// DomainKeys returns all domain keys in canonical order.
func DomainKeys() []DomainKey {
	keys := make([]DomainKey, len(domains))
	for i, d := range domains {
		keys[i] = d.Key
	}
	return keys
}

// Info returns the metadata for a domain key.
func Info(key DomainKey) (DomainInfo, bool) {
	d, ok := byKey[key]
	return d, ok
}

// KeyForID maps a long domain id to its key.
func KeyForID(id DomainID) (DomainKey, bool) {
	d, ok := byID[id]
	return d.Key, ok
}

// IDForKey maps a domain key to its long id.
func IDForKey(key DomainKey) (DomainID, bool) {
	d, ok := byKey[key]
	return d.ID, ok
}

// Weight returns the scoring weight of a domain, or 0 for an unknown key.
func Weight(key DomainKey) float64 {
	return byKey[key].Weight
}

// DisplayName returns a human-readable name for a domain key.
func DisplayName(key DomainKey) string {
	if d, ok := byKey[key]; ok {
		return d.Name
	}
	return string(key)
}

// ParseDomainKey accepts either a key ("domain2") or an id ("domain2-security").
func ParseDomainKey(s string) (DomainKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if _, ok := byKey[DomainKey(s)]; ok {
		return DomainKey(s), nil
	}
	if d, ok := byID[DomainID(s)]; ok {
		return d.Key, nil
	}
	return "", fmt.Errorf("unknown domain: %q", s)
}

// ParseDomainKeys parses a list of domain names, rejecting unknown ones.
func ParseDomainKeys(names []string) ([]DomainKey, error) {
	keys := make([]DomainKey, 0, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		k, err := ParseDomainKey(n)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}
