// Package normalisers provides the text extractors for each upload format
// and the registry that dispatches between them. Each extractor knows how
// to pull plain text out of one or more file formats.
//
// Extractors are registered with the Registry at startup.
package normalisers
