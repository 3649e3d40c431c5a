// Package config provides configuration structures and utilities for OfferScan.
// It defines crawl budgets, scoring settings, report preferences and the
// optional YAML file carrying per-site headers, cookies and crawl limits.
package config
