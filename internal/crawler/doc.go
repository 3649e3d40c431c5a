// Package crawler runs the shallow, same-origin crawl that feeds the
// keyword scorer.
//
// # Components
//
//   - Spider: the crawl orchestrator. It pops a URL, fetches, normalizes
//     and scores it, stops on the first positive verdict, and otherwise
//     enqueues the page's links until the queue empties or the page budget
//     is spent.
//   - LinkExtractor: finds same-origin links, skipping media assets and
//     deny-listed paths such as /blog or /careers.
//   - Fetcher: fetches raw content with a bounded timeout and a descriptive
//     User-Agent. Failures come back as data so one bad page never aborts
//     a crawl.
//
// # Politeness
//
//   - Fetches within one crawl are spaced by a fixed delay (100ms by default)
//   - The page budget (5 by default) caps outbound requests per analysis
//   - robots.txt is honored when enabled
//
// # Usage
//
//	fetcher := crawler.NewHTTPFetcher(httpClient)
//	spider := crawler.NewSpider(fetcher, crawler.WithMaxPages(5))
//	result, err := spider.Analyze(ctx, "https://shop.example")
package crawler
