// Package domain holds the types every other package speaks: the closed
// set of supported languages, documents and their language-tagged chunks,
// the query/answer/result triple of a RAG call, translation cache records,
// settings, and the error kinds providers report.
//
// Nothing here performs I/O or imports outside the standard library, so
// adapters and services can share these types without import cycles.
package domain
