package services

import "trip-planner-service/internal/domain"

const maxSources = 8

// BuildSources lists the attributions of a plan: origin, stops, then the POIs
// that carry a link or a generated description.
func BuildSources(
	origin domain.GeoLocation,
	stops []domain.GeoLocation,
	pois []domain.PointOfInterest,
	descriptions map[string]string,
) []domain.SourceLink {
	links := make([]domain.SourceLink, 0, 2+len(stops)+len(pois))

	for _, loc := range append([]domain.GeoLocation{origin}, stops...) {
		c := loc.Coordinates()
		links = append(links, domain.NewSourceLink(loc.ReferenceURL, loc.Name, loc.Provider, "", &c))
	}

	for _, p := range pois {
		desc := descriptions[p.Label]
		if p.ReferenceURL == "" && desc == "" {
			continue
		}
		c := p.Coordinates()
		links = append(links, domain.NewSourceLink(p.ReferenceURL, p.Label, p.Provider, desc, &c))
	}

	return DedupSources(links)
}

// DedupSources keeps the first link per (url, title) pair, up to the source cap.
func DedupSources(links []domain.SourceLink) []domain.SourceLink {
	type key struct{ url, title string }

	seen := make(map[key]struct{}, len(links))
	out := make([]domain.SourceLink, 0, min(len(links), maxSources))
	for _, l := range links {
		k := key{l.ReferenceURL, l.Title}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
		if len(out) == maxSources {
			break
		}
	}
	return out
}
