package catalog

// Movie is a movie as the adapter serves it.
type Movie struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Year        int      `json:"year"`
	Genre       []string `json:"genre"`
	Description string   `json:"description"`
}

// TVShow is a TV show as the adapter serves it.
type TVShow struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Seasons []Season `json:"seasons"`
}

type Season struct {
	SeasonNumber int       `json:"season_number"`
	Episodes     []Episode `json:"episodes"`
}

type Episode struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// In seconds
	Duration int `json:"duration"`
}

// Collection is a named toplist of the upstream catalog.
// ID is the upstream section ID.
type Collection struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// CollectionEntry is a single tile of a collection.
type CollectionEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
