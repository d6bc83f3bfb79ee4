// Package discover extracts documentation URLs from a reference index
// page. It pulls the sidebar HTML through the scrape backend, collects
// same-site links, and classifies endpoint pages by their slug naming
// convention. The classification is a best-effort heuristic: there is
// no authoritative source to validate against.
package discover
