package model

// Document represents a single blog post parsed from a Markdown file.
// Date and LastModified are ISO-8601 strings so ordering is a plain string
// comparison, matching how the content files themselves spell dates.
type Document struct {
	Slug        string
	Locale      string
	Title       string
	Description string
	Author      string
	Date        string
	Tags        []string
	Content     string

	LastModified       string
	ReadingTime        string
	ReadingTimeMinutes int
	WordCount          int
}

// TagCount is one entry of the aggregated tag listing.
type TagCount struct {
	Tag   string
	Count int
}
