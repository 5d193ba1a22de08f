package search

// Package search finds candidate tracks on YouTube through the Data API v3
// search endpoint and maps them to model.MenuItem. CachedSearcher adds an
// expiring LRU and collapses identical in-flight searches.
