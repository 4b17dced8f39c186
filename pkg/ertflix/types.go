package ertflix

// Section is one entry of the page content response or of the section content response.
// Based on the API responses:
//
//  {
//  	"sectionId": 123,
//  	"toplistCodename": "ert-oles-oi-tainies", // Only present for named toplists
//  	"tilesIds": [
//  		{
//  			"id": "string",
//  			"codename": "string",
//  			"originEntityId": 456
//  		}
//  	]
//  }
type Section struct {
	SectionID int `json:"sectionId"`
	// Empty for sections that aren't one of the named toplists
	ToplistCodename string    `json:"toplistCodename,omitempty"`
	TileRefs        []TileRef `json:"tilesIds,omitempty"`
}

// HasToplist returns true if the section is one of the named toplists.
func (s Section) HasToplist() bool {
	return s.ToplistCodename != ""
}

// TileIDs returns the IDs of all referenced tiles, in the order of the section.
func (s Section) TileIDs() []string {
	ids := make([]string, 0, len(s.TileRefs))
	for _, ref := range s.TileRefs {
		ids = append(ids, ref.ID)
	}
	return ids
}

// TileRef references a tile that must be resolved via the tile batch endpoint.
type TileRef struct {
	ID             string `json:"id"`
	Codename       string `json:"codename"`
	OriginEntityID int    `json:"originEntityId"`
}

// Tile is the result of resolving a TileRef.
// Only the ID is guaranteed to be set, all other fields are best-effort.
type Tile struct {
	ID             string  `json:"id"`
	Codename       string  `json:"codename"`
	OriginEntityID int     `json:"originEntityId"`
	Title          *string `json:"title,omitempty"`
	Year           *int    `json:"year,omitempty"`
	Description    *string `json:"description,omitempty"`
}

type requestedTile struct {
	ID string `json:"id"`
}

type tilesRequest struct {
	PlatformCodename string          `json:"platformCodename"`
	RequestedTiles   []requestedTile `json:"requestedTiles"`
}
