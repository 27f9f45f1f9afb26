package availability

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	domain "loftcal/internal/domain/availability"
)

const defaultIntegrityQuiet = time.Hour

// integrityGuard suppresses repeats of the same integrity report. A report is
// identified by its window and the skipped and duplicate row keys, so the same
// bad rows read again within the quiet period raise nothing new.
type integrityGuard struct {
	mu   sync.Mutex
	seen map[string]time.Time
}

// claim reports whether ev should be recorded at now and remembers it if so.
func (g *integrityGuard) claim(ev domain.IntegrityFlagged, now time.Time, quiet time.Duration) (string, bool) {
	if quiet <= 0 {
		quiet = defaultIntegrityQuiet
	}
	fp := integrityFingerprint(ev)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seen == nil {
		g.seen = make(map[string]time.Time)
	}
	for key, at := range g.seen {
		if now.Sub(at) >= quiet {
			delete(g.seen, key)
		}
	}
	if _, dup := g.seen[fp]; dup {
		return fp, false
	}
	g.seen[fp] = now
	return fp, true
}

// release forgets fp so a report that failed to record is retried on the next build.
func (g *integrityGuard) release(fp string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.seen, fp)
}

func integrityFingerprint(ev domain.IntegrityFlagged) string {
	h := sha256.New()
	h.Write([]byte(ev.From + ".." + ev.To + "\n"))
	h.Write([]byte(strings.Join(ev.Skipped, "\n") + "\n--\n"))
	h.Write([]byte(strings.Join(ev.Duplicates, "\n")))
	return hex.EncodeToString(h.Sum(nil))
}
