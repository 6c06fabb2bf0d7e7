package domain

// IndexStats describes the vector index contents.
// Partially indexed documents are counted as they are.
type IndexStats struct {
	Chunks        int        `json:"total_chunks"`
	Documents     int        `json:"total_documents"`
	LanguageCount int        `json:"language_count"`
	Languages     []Language `json:"unique_languages"`
	Files         []string   `json:"unique_files"`
}

// CacheStats describes translation cache usage since the last clear.
type CacheStats struct {
	Hits   int64 `json:"cache_hits"`
	Misses int64 `json:"cache_misses"`
	Size   int   `json:"cache_size"`
}

// SystemStats aggregates stats for the stats surface.
type SystemStats struct {
	Index              IndexStats `json:"vector_store"`
	Cache              CacheStats `json:"translation_cache"`
	SupportedLanguages []Language `json:"supported_languages"`
}
