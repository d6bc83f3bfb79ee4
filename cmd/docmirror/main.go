// Package main provides the entry point for the docmirror CLI.
//
// docmirror mirrors ReadMe-hosted API reference documentation to local
// files. It discovers page URLs from the reference sidebar, then bulk
// downloads pages either through an external scraping CLI or through
// the direct plaintext route.
//
// Usage:
//
//	docmirror discover --url <reference-index-url>
//	docmirror scrape --urls <list-file>
//	docmirror fetch --urls <list-file>
//
// See --help for all available options.
package main

// main is the entry point for docmirror.
func main() {
	Execute()
}
