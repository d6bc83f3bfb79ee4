// Package fetch provides the fetch collaborators used by the mirror
// orchestrator: a plaintext HTTP fetcher for the ReadMe ".md" route and
// a fetcher that shells out to an external scraping CLI. Both implement
// the Fetcher interface and share one error taxonomy so the retry
// policy can classify failures uniformly.
package fetch
