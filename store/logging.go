package store

import (
	"github.com/rs/zerolog/log"

	"github.com/okulmus/rdf2cypher/observability"
)

// logFailure records a surfaced store error with structured fields, per
// §7's logging rule: kind, op, cypher truncated, predicate — never
// fmt.Printf-style logging.
func logFailure(op, predicate, cypher string, err error) {
	log.Error().
		Str("kind", "store").
		Str("op", op).
		Str("predicate", predicate).
		Str("cypher", observability.TruncateCypher(cypher)).
		Err(err).
		Msg("store operation failed")
}
