// Package main provides the entry point for the OfferScan CLI.
//
// OfferScan crawls a small number of pages of a website and decides whether
// the site proactively advertises financing or price quotes.
//
// Usage:
//
//	offerscan analyze <url>
//	offerscan analyze --list <file>
//
// See --help for all available options.
package main

// main is the entry point for OfferScan.
func main() {
	Execute()
}
