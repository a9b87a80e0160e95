package planner

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// Overrides is the known-good pool table consulted before any generic
// intermediary search. Keys are unordered token-address pairs. Entries were
// collected from production incidents where the liquidity search picked a
// stale or honeypot venue for a specific pair; the table is a maintenance
// liability, not an invariant, and should shrink over time.
type Overrides map[[2]string]string

func overrideKey(addrA, addrB string) [2]string {
	if addrA > addrB {
		addrA, addrB = addrB, addrA
	}
	return [2]string{addrA, addrB}
}

// Set registers a known-good pool id for a token pair.
func (o Overrides) Set(addrA, addrB, poolID string) {
	o[overrideKey(addrA, addrB)] = poolID
}

// Lookup returns the pinned pool id for a pair, if any.
func (o Overrides) Lookup(addrA, addrB string) (string, bool) {
	id, ok := o[overrideKey(addrA, addrB)]
	return id, ok
}

// ParseOverrides builds the table from a comma-separated list of
// addrA:addrB:poolID triples. Malformed entries are skipped with a warning
// so a single bad triple cannot keep the service from booting.
func ParseOverrides(raw string) Overrides {
	o := make(Overrides)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			log.Warn().Str("entry", entry).Msg("[planner] malformed pool override, skipped")
			continue
		}
		o.Set(parts[0], parts[1], parts[2])
	}
	return o
}
