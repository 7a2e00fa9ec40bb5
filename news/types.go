package news

import "time"

// Article is one station news post, already flattened from the WordPress
// response shape: rendered fields are unwrapped and stripped of markup.
type Article struct {
	ID         int
	Title      string
	Excerpt    string
	Link       string
	Published  time.Time
	Categories []int
}

// Category is a WordPress post category.
type Category struct {
	ID    int
	Name  string
	Count int
}

// Page is one page of articles plus the pagination bound reported by the
// server.
type Page struct {
	Articles   []Article
	Number     int
	TotalPages int
}

// HasNext reports whether another page exists after this one.
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}
