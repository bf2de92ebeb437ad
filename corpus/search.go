package corpus

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/coregx/phonsearch"
	"golang.org/x/sync/errgroup"
)

// ErrUnusablePattern is returned by Search for a pattern that failed to
// parse.
var ErrUnusablePattern = errors.New("corpus: pattern is not usable")

// Options configures a bulk search.
type Options struct {
	// Workers limits the number of words scanned concurrently.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int

	// Logger receives a summary of each search. Nil discards.
	Logger *slog.Logger
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// Result holds the outcome of a bulk search.
type Result struct {
	// Matched has the identifier of every word with at least one match.
	Matched *roaring.Bitmap

	// Matches lists the matches of each matched word, in word order.
	Matches map[uint32][]phonsearch.MatchInfo

	// Scanned is the number of words that survived the index and were
	// scanned.
	Scanned uint64
}

// Search runs p over every word of the corpus that can contain a match.
// Candidate words are the intersection of the postings of p's required
// phones; each candidate is scanned with p.FindAll.
//
// Search returns ctx.Err() if ctx is cancelled before every candidate is
// scanned, and ErrUnusablePattern if p failed to parse.
func (c *Corpus) Search(ctx context.Context, p *phonsearch.Pattern, opts Options) (*Result, error) {
	if p == nil || !p.Usable() {
		return nil, ErrUnusablePattern
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := opts.logger()
	begin := time.Now()

	candidates := c.index.Candidates(p.RequiredPhones())
	res := &Result{
		Matched: roaring.New(),
		Matches: make(map[uint32][]phonsearch.MatchInfo),
		Scanned: candidates.GetCardinality(),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	it := candidates.Iterator()
	for it.HasNext() {
		if gctx.Err() != nil {
			break
		}
		id := it.Next()
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found := p.FindAll(c.Word(id))
			if len(found) == 0 {
				return nil
			}
			mu.Lock()
			res.Matched.Add(id)
			res.Matches[id] = found
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("corpus search cancelled", "pattern", p.Source(), "error", err)
		return nil, err
	}

	log.Debug("corpus search",
		"pattern", p.Source(),
		"words", c.Len(),
		"candidates", res.Scanned,
		"matched", res.Matched.GetCardinality(),
		"elapsed", time.Since(begin))
	return res, nil
}
