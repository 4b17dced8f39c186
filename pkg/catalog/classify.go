package catalog

import (
	"fmt"
	"strconv"

	"github.com/doingodswork/ertflix-jellyfin/pkg/ertflix"
)

// Classify returns the last section whose toplist codename equals codename.
// Later sections override earlier ones with the same codename.
func Classify(sections []ertflix.Section, codename string) (ertflix.Section, error) {
	section, err := classify(sections, func(s ertflix.Section) bool {
		return s.HasToplist() && s.ToplistCodename == codename
	})
	if err != nil {
		return ertflix.Section{}, fmt.Errorf("%w: codename %q", err, codename)
	}
	return section, nil
}

// ClassifyByID is like Classify, but matches the section ID of named toplists.
func ClassifyByID(sections []ertflix.Section, sectionID int) (ertflix.Section, error) {
	section, err := classify(sections, func(s ertflix.Section) bool {
		return s.HasToplist() && s.SectionID == sectionID
	})
	if err != nil {
		return ertflix.Section{}, fmt.Errorf("%w: section ID %v", err, sectionID)
	}
	return section, nil
}

func classify(sections []ertflix.Section, match func(ertflix.Section) bool) (ertflix.Section, error) {
	found := false
	var result ertflix.Section
	for _, section := range sections {
		if match(section) {
			result = section
			found = true
		}
	}
	if !found {
		return ertflix.Section{}, ErrSectionNotFound
	}
	if len(result.TileRefs) == 0 {
		return ertflix.Section{}, ErrEmptySection
	}
	return result, nil
}

// CollectionsFromSections maps every named toplist to a Collection, in encounter order.
// Sections without a toplist codename are skipped.
func CollectionsFromSections(sections []ertflix.Section) []Collection {
	result := make([]Collection, 0, len(sections))
	for _, section := range sections {
		if !section.HasToplist() {
			continue
		}
		result = append(result, Collection{
			Name: section.ToplistCodename,
			ID:   strconv.Itoa(section.SectionID),
		})
	}
	return result
}
