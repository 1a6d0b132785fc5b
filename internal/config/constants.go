package config

const (
	// DefaultPort is the HTTP port used when PORT is not set
	DefaultPort = 8080

	// DefaultRatingsBaseURL is the Goodreads-compatible review counts endpoint
	DefaultRatingsBaseURL = "https://www.goodreads.com/book/review_counts.json"

	// DefaultCatalogPath is the CSV file read by import-books when -file is omitted
	DefaultCatalogPath = "./books.csv"
)
