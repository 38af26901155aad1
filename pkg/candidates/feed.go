package candidates

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"sync"

	"github.com/mmcdole/gofeed"

	"transcript-search/pkg/domain"
	"transcript-search/pkg/httpclient"
)

const channelFeedBase = "https://www.youtube.com/feeds/videos.xml?channel_id="

// FeedSource discovers candidates from channel RSS feeds instead of the
// scroll-harvested listing surface. Feeds only expose the most recent uploads,
// but reading them needs no browser, so multiple channels are fetched in
// parallel.
type FeedSource struct {
	client   *httpclient.HTTPClient
	workers  int
	feedBase string
}

// NewFeedSource creates a feed source with the given parallelism. workers <= 0
// is coerced to 1.
func NewFeedSource(workers int) *FeedSource {
	if workers <= 0 {
		workers = 1
	}
	return &FeedSource{
		client:   httpclient.NewClient(httpclient.BrowserClient),
		workers:  workers,
		feedBase: channelFeedBase,
	}
}

// Discover fetches the upload feeds of the given channel IDs and returns
// their entries as candidates, deduplicated by URL. Per-feed failures are
// logged and skipped. Output order is stable: feeds in the order given,
// entries in feed order.
func (f *FeedSource) Discover(ctx context.Context, channelIDs []string) ([]domain.ResourceCandidate, error) {
	if len(channelIDs) == 0 {
		return nil, nil
	}

	type feedResult struct {
		index      int
		candidates []domain.ResourceCandidate
	}

	jobs := make(chan int)
	var (
		mu      sync.Mutex
		results []feedResult
		wg      sync.WaitGroup
	)

	wg.Add(f.workers)
	for i := 0; i < f.workers; i++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				found, err := f.fetchChannelFeed(ctx, channelIDs[idx])
				if err != nil {
					log.Printf("feed source: skipping channel %s: %v", channelIDs[idx], err)
					continue
				}
				mu.Lock()
				results = append(results, feedResult{index: idx, candidates: found})
				mu.Unlock()
			}
		}()
	}

	for idx := range channelIDs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	seen := make(map[string]bool)
	var candidates []domain.ResourceCandidate
	for _, r := range results {
		for _, c := range r.candidates {
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}

func (f *FeedSource) fetchChannelFeed(ctx context.Context, channelID string) ([]domain.ResourceCandidate, error) {
	feedURL := f.feedBase + channelID

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	var candidates []domain.ResourceCandidate
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		if c, ok := FromHref(item.Link); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}
