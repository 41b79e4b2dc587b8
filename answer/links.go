package answer

import (
	"fmt"
	"sort"

	"github.com/coursetta/coursetta/core"
)

// Link is a citation pointing back at source material.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// ExtractLinks builds the citation list from ranked evidence. Candidates
// are ordered by fused score, then by document length, and deduplicated
// by URL so one forum thread split into chunks yields a single link.
func ExtractLinks(evidence []*core.ScoredResult) []Link {
	ordered := make([]*core.ScoredResult, len(evidence))
	copy(ordered, evidence)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].FusedScore != ordered[j].FusedScore {
			return ordered[i].FusedScore > ordered[j].FusedScore
		}
		return len(ordered[i].Document.Text) > len(ordered[j].Document.Text)
	})

	links := make([]Link, 0, len(ordered))
	seen := make(map[string]bool, len(ordered))
	for _, result := range ordered {
		doc := result.Document
		if doc.URL == "" || seen[doc.URL] {
			continue
		}
		seen[doc.URL] = true
		links = append(links, Link{URL: doc.URL, Text: linkTitle(doc)})
	}
	return links
}

// linkTitle prefers the document's own title and otherwise synthesizes one
// from its category and author.
func linkTitle(doc *core.Document) string {
	if doc.Title != "" {
		return doc.Title
	}
	author := doc.Author
	if author == "" {
		author = "User"
	}
	return fmt.Sprintf("%s by %s", titleCase(doc.Category.String()), author)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
