package ingestion

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coursetta/coursetta/core"
)

// SourcePage is one unit of scraped material before chunking: a forum post
// or a course-website section.
type SourcePage struct {
	Source    core.SourceType
	Title     string
	URL       string
	Author    string
	Text      string
	Timestamp time.Time
}

// ForumPost is a single post inside a scraped forum topic.
type ForumPost struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	Text      string    `json:"text"`
}

// ForumTopic matches one entry of the forum scrape export: the topic head
// post plus its replies.
type ForumTopic struct {
	ID         int64       `json:"id"`
	Title      string      `json:"title"`
	CreatedAt  time.Time   `json:"created_at"`
	Slug       string      `json:"slug"`
	URL        string      `json:"url"`
	Posts      []ForumPost `json:"posts"`
	FullText   string      `json:"full_text"`
	CategoryID int64       `json:"category_id"`
	Tags       []string    `json:"tags"`
}

// Pages splits the topic into one page per post. The head post carries the
// topic title; replies get a derived title so citations stay readable.
func (t *ForumTopic) Pages() []SourcePage {
	pages := make([]SourcePage, 0, len(t.Posts))
	for i, post := range t.Posts {
		title := t.Title
		if i > 0 {
			title = "Reply to: " + t.Title
		}
		timestamp := post.CreatedAt
		if timestamp.IsZero() {
			timestamp = t.CreatedAt
		}
		pages = append(pages, SourcePage{
			Source:    core.SourceTypeForum,
			Title:     title,
			URL:       t.URL,
			Author:    post.Username,
			Text:      post.Text,
			Timestamp: timestamp,
		})
	}
	return pages
}

// WebsitePage matches one line of the course-website scrape export.
type WebsitePage struct {
	Content string `json:"content"`
	URL     string `json:"url"`
}

// Page converts the scrape entry into a SourcePage.
func (w *WebsitePage) Page() SourcePage {
	return SourcePage{
		Source: core.SourceTypeWebsite,
		URL:    w.URL,
		Text:   w.Content,
	}
}

// LoadForumTopics reads a forum scrape export, a JSON array of topics.
func LoadForumTopics(path string) ([]ForumTopic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading forum export: %w", err)
	}

	var topics []ForumTopic
	if err := json.Unmarshal(data, &topics); err != nil {
		return nil, fmt.Errorf("parsing forum export %s: %w", path, err)
	}
	return topics, nil
}

// LoadWebsitePages reads a website scrape export, one JSON object per line.
func LoadWebsitePages(path string) ([]WebsitePage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading website export: %w", err)
	}
	defer f.Close()

	var pages []WebsitePage
	scanner := bufio.NewScanner(f)
	// Scraped sections can exceed the default token size.
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var page WebsitePage
		if err := json.Unmarshal(scanner.Bytes(), &page); err != nil {
			return nil, fmt.Errorf("parsing website export %s line %d: %w", path, line, err)
		}
		pages = append(pages, page)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading website export: %w", err)
	}
	return pages, nil
}

// FlattenTopics expands forum topics into pages ready for ingestion.
func FlattenTopics(topics []ForumTopic) []SourcePage {
	var pages []SourcePage
	for i := range topics {
		pages = append(pages, topics[i].Pages()...)
	}
	return pages
}

// FlattenWebsite expands website entries into pages ready for ingestion.
func FlattenWebsite(entries []WebsitePage) []SourcePage {
	pages := make([]SourcePage, 0, len(entries))
	for i := range entries {
		pages = append(pages, entries[i].Page())
	}
	return pages
}
