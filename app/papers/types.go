package papers

// Paper is one research paper returned by the search API.
type Paper struct {
	ID            string
	Title         string
	Abstract      string
	Authors       []string
	Year          int
	CitationCount int
	URL           string
	PDFURL        string
}
