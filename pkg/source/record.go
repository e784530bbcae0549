package source

// Record is a single item of the remote collection. Identity is the only
// field the selection engine inspects; the display fields travel along for
// the table renderer.
type Record struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	PlaceOfOrigin string `json:"place_of_origin"`
	ArtistDisplay string `json:"artist_display"`
	Inscriptions  string `json:"inscriptions"`
	DateStart     int    `json:"date_start"`
	DateEnd       int    `json:"date_end"`
}

// Pagination is the paging metadata the collection endpoint returns with
// every page.
type Pagination struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	Total       int `json:"total"`
}

// Page is one fetched page of the collection.
type Page struct {
	Records    []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Exhausted reports whether this page is the last one the source has.
func (p *Page) Exhausted() bool {
	return p.Pagination.CurrentPage >= p.Pagination.TotalPages
}
