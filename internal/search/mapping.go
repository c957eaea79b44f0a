package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Titles and bodies are English-stemmed full text; kind and the parent ids
// are keywords so results can be filtered and traced back to the tree.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true

	// Body - searchable but not stored (can be large)
	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = en.AnalyzerName
	bodyFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("body", bodyFieldMapping)

	// Title again without stemming, for prefix matches while typing
	rawTitleFieldMapping := bleve.NewTextFieldMapping()
	rawTitleFieldMapping.Analyzer = simple.Name
	rawTitleFieldMapping.Name = "title_prefix"
	docMapping.AddFieldMappingsAt("title", titleFieldMapping, rawTitleFieldMapping)

	for _, field := range []string{"id", "kind", "board_id", "block_id"} {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = keyword.Name
		fm.Store = field != "id"
		docMapping.AddFieldMappingsAt(field, fm)
	}

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
