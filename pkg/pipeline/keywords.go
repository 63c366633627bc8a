package pipeline

import (
	"strings"

	"github.com/querylens-ai/querylens/pkg/models"
)

// keywordEntry maps trigger terms to an attribute value. Tables are scanned
// in order and the first entry with a matching term wins.
type keywordEntry struct {
	terms []string
	value string
}

var itemTypeKeywords = []keywordEntry{
	{terms: []string{"dining table"}, value: "dining table"},
	{terms: []string{"table"}, value: "table"},
	{terms: []string{"chair"}, value: "chair"},
	{terms: []string{"sofa", "couch"}, value: "sofa"},
	{terms: []string{"bookshelf", "shelf"}, value: "bookshelf"},
	{terms: []string{"bed"}, value: "bed"},
	{terms: []string{"desk"}, value: "desk"},
	{terms: []string{"dresser", "drawer"}, value: "dresser"},
}

var materialKeywords = []keywordEntry{
	{terms: []string{"wood", "wooden"}, value: "wooden"},
	{terms: []string{"metal", "steel", "iron"}, value: "metal"},
	{terms: []string{"plastic"}, value: "plastic"},
	{terms: []string{"leather"}, value: "leather"},
	{terms: []string{"fabric", "cloth"}, value: "fabric"},
	{terms: []string{"glass"}, value: "glass"},
}

var colorKeywords = []keywordEntry{
	{terms: []string{"blue"}, value: "blue"},
	{terms: []string{"red"}, value: "red"},
	{terms: []string{"green"}, value: "green"},
	{terms: []string{"yellow"}, value: "yellow"},
	{terms: []string{"black"}, value: "black"},
	{terms: []string{"white"}, value: "white"},
	{terms: []string{"brown"}, value: "brown"},
	{terms: []string{"gray", "grey"}, value: "gray"},
}

func lookupKeyword(table []keywordEntry, query string) string {
	for _, e := range table {
		for _, term := range e.terms {
			if strings.Contains(query, term) {
				return e.value
			}
		}
	}
	return ""
}

// KeywordParse interprets a query with keyword tables alone, bypassing the
// model. It backs a lightweight test surface for exercising the API shape
// without a running inference endpoint.
func KeywordParse(query string) models.ParsedQuery {
	q := strings.ToLower(query)
	pq := models.ParsedQuery{
		ItemType: lookupKeyword(itemTypeKeywords, q),
		Material: lookupKeyword(materialKeywords, q),
		Color:    lookupKeyword(colorKeywords, q),
	}
	if pq.ItemType == "" {
		pq.ItemType = "furniture"
	}
	return pq
}
