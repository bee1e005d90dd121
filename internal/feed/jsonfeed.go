package feed

import "github.com/lapeyrade/portfolio/internal/model"

const jsonFeedVersion = "https://jsonfeed.org/version/1.1"

type JSONFeed struct {
	Version     string     `json:"version"`
	Title       string     `json:"title"`
	HomePageURL string     `json:"home_page_url"`
	FeedURL     string     `json:"feed_url"`
	Description string     `json:"description,omitempty"`
	Items       []JSONItem `json:"items"`
}

type JSONItem struct {
	ID            string       `json:"id"`
	URL           string       `json:"url"`
	Title         string       `json:"title"`
	ContentText   string       `json:"content_text"`
	DatePublished string       `json:"date_published"`
	Tags          []string     `json:"tags,omitempty"`
	Authors       []JSONAuthor `json:"authors,omitempty"`
}

type JSONAuthor struct {
	Name string `json:"name"`
}

// NewJSONFeed builds the JSON Feed 1.1 document for the posts. The author is
// attached only when the post carries one; content_text falls back from the
// description to the full content.
func NewJSONFeed(posts []*model.Document, site Site) *JSONFeed {
	items := make([]JSONItem, 0, len(posts))
	for _, post := range posts {
		url := site.URL + "/blog/" + post.Slug
		contentText := post.Description
		if contentText == "" {
			contentText = post.Content
		}
		item := JSONItem{
			ID:            url,
			URL:           url,
			Title:         post.Title,
			ContentText:   contentText,
			DatePublished: isoDate(post.Date),
			Tags:          post.Tags,
		}
		if post.Author != "" {
			item.Authors = []JSONAuthor{{Name: post.Author}}
		}
		items = append(items, item)
	}
	return &JSONFeed{
		Version:     jsonFeedVersion,
		Title:       site.Title,
		HomePageURL: site.URL,
		FeedURL:     site.URL + "/feed.json",
		Description: site.Description,
		Items:       items,
	}
}
