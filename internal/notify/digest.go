package notify

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// StatsSource supplies the numbers summarized in a digest.
type StatsSource interface {
	// Stats returns task counts per status and the total git event count.
	Stats() (map[string]int, int64, error)
}

// Digest periodically pushes an activity summary through an adapter.
type Digest struct {
	adapter Adapter
	source  StatsSource
	sched   cron.Schedule
}

// NewDigest creates a digest on a 5-field cron expression.
func NewDigest(adapter Adapter, source StatsSource, expr string) (*Digest, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("notify: parse digest cron %q: %w", expr, err)
	}
	return &Digest{adapter: adapter, source: source, sched: sched}, nil
}

// Run fires digests on schedule until ctx is cancelled.
func (d *Digest) Run(ctx context.Context) {
	for {
		next := d.sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		text, err := d.build()
		if err != nil {
			log.Printf("notify: build digest: %v", err)
			continue
		}
		if text == "" {
			continue // no activity, suppress
		}
		if err := d.adapter.Send(ctx, text); err != nil {
			log.Printf("notify: send digest: %v", err)
		}
	}
}

// build renders the summary line, or "" when there is nothing to report.
func (d *Digest) build() (string, error) {
	counts, gitEvents, err := d.source.Stats()
	if err != nil {
		return "", err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 && gitEvents == 0 {
		return "", nil
	}

	statuses := make([]string, 0, len(counts))
	for status := range counts {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)

	parts := make([]string, 0, len(statuses))
	for _, status := range statuses {
		parts = append(parts, fmt.Sprintf("%s=%d", status, counts[status]))
	}
	return fmt.Sprintf("digest: %d tasks (%s), %d git events",
		total, strings.Join(parts, ", "), gitEvents), nil
}
