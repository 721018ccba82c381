package scrape

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/fortuna/kbostats/internal/config"
	"github.com/fortuna/kbostats/internal/kbo"
	"github.com/fortuna/kbostats/internal/store"
)

func mustDate(t *testing.T, date string) time.Time {
	t.Helper()
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return day
}

// testDeps wires the scraper collaborators against a stub site, with
// output under a per-test temp dir and archiving disabled.
func testDeps(t *testing.T, srv *httptest.Server) Deps {
	t.Helper()
	return testDepsAt(t, srv, t.TempDir())
}

func testDepsAt(t *testing.T, srv *httptest.Server, outputDir string) Deps {
	t.Helper()
	log := zerolog.Nop()
	return Deps{
		Client:    kbo.NewClient(srv.URL, time.Second, log),
		Endpoints: config.DefaultEndpoints(),
		Store:     store.New(outputDir, log),
		Backup:    store.NewBackup("", log),
		Log:       log,
	}
}
