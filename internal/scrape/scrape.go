// Package scrape implements the domain scrapers: each one composes the
// kbo protocol layer, the table normalizer and the record store to
// answer one kind of data request (a date range, a season, a player).
// Failures are recovered at the smallest unit possible (one date, one
// game, one page, one player) and never abort the surrounding run; a
// scraper returns whatever partial accumulation it achieved.
package scrape

import (
	"github.com/rs/zerolog"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/store"
)

// Deps bundles the collaborators every scraper composes.
type Deps struct {
	Client    *kbo.Client
	Endpoints config.Endpoints
	Store     *store.Store
	Backup    *store.Backup
	Log       zerolog.Logger
}

// deps is the embedded, unexported view the scrapers work against.
type deps struct {
	client    *kbo.Client
	endpoints config.Endpoints
	store     *store.Store
	backup    *store.Backup
	log       zerolog.Logger
}

func newDeps(d Deps) deps {
	return deps{
		client:    d.Client,
		endpoints: d.Endpoints,
		store:     d.Store,
		backup:    d.Backup,
		log:       d.Log,
	}
}

const dateLayout = "20060102"
