package shipping

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ZoneSelection decides which matching zones contribute rates
type ZoneSelection string

const (
	// SelectAllMatching returns every matching zone
	SelectAllMatching ZoneSelection = "all"
	// SelectMostSpecific returns only the zones sharing the highest specificity
	SelectMostSpecific ZoneSelection = "most_specific"
)

// ParseZoneSelection parses a configured selection policy
func ParseZoneSelection(s string) (ZoneSelection, error) {
	switch ZoneSelection(s) {
	case SelectAllMatching, "":
		return SelectAllMatching, nil
	case SelectMostSpecific:
		return SelectMostSpecific, nil
	default:
		return "", fmt.Errorf("unknown zone selection %q", s)
	}
}

// ZoneMatch is a zone that covers a destination
type ZoneMatch struct {
	ZoneID      uuid.UUID
	ZoneName    string
	Specificity int
}

// MalformedPatternFunc is notified about locations whose postal pattern cannot be evaluated
type MalformedPatternFunc func(location ZoneLocation, err error)

// MatchZones ranks the zones covered by locations for dest.
// Zones are ordered by specificity descending, then zone id ascending, without duplicates.
func MatchZones(locations []ZoneLocation, dest Destination, selection ZoneSelection, onMalformed MalformedPatternFunc) []ZoneMatch {
	byZone := make(map[uuid.UUID]*ZoneMatch)
	for _, loc := range locations {
		ok, err := loc.Matches(dest)
		if err != nil {
			if onMalformed != nil {
				onMalformed(loc, err)
			}
			continue
		}
		if !ok {
			continue
		}

		specificity := loc.Specificity()
		if existing, found := byZone[loc.ZoneID]; found {
			if specificity > existing.Specificity {
				existing.Specificity = specificity
			}
			continue
		}
		byZone[loc.ZoneID] = &ZoneMatch{
			ZoneID:      loc.ZoneID,
			ZoneName:    loc.ZoneName,
			Specificity: specificity,
		}
	}

	matches := make([]ZoneMatch, 0, len(byZone))
	for _, m := range byZone {
		matches = append(matches, *m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Specificity != matches[j].Specificity {
			return matches[i].Specificity > matches[j].Specificity
		}
		return matches[i].ZoneID.String() < matches[j].ZoneID.String()
	})

	if selection == SelectMostSpecific && len(matches) > 0 {
		top := matches[0].Specificity
		cut := len(matches)
		for i, m := range matches {
			if m.Specificity < top {
				cut = i
				break
			}
		}
		matches = matches[:cut]
	}

	return matches
}

// ZoneMatcher finds the zones of a shipping method that cover a destination
type ZoneMatcher struct {
	locations LocationReader
	selection ZoneSelection
	logger    *zap.Logger
}

// ZoneMatcherOption is a functional option for configuring the zone matcher
type ZoneMatcherOption func(*ZoneMatcher)

// WithZoneSelection sets the zone selection policy
func WithZoneSelection(selection ZoneSelection) ZoneMatcherOption {
	return func(m *ZoneMatcher) {
		m.selection = selection
	}
}

// WithZoneMatcherLogger sets the logger
func WithZoneMatcherLogger(logger *zap.Logger) ZoneMatcherOption {
	return func(m *ZoneMatcher) {
		m.logger = logger
	}
}

// NewZoneMatcher creates a new zone matcher
func NewZoneMatcher(locations LocationReader, opts ...ZoneMatcherOption) *ZoneMatcher {
	m := &ZoneMatcher{
		locations: locations,
		selection: SelectAllMatching,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FindMatchingZones returns the ranked zones of methodID that cover dest
func (m *ZoneMatcher) FindMatchingZones(ctx context.Context, methodID uuid.UUID, dest Destination) ([]ZoneMatch, error) {
	if dest.CountryCode == "" {
		return nil, nil
	}

	locations, err := m.locations.FindLocations(ctx, LocationQuery{
		MethodID:    methodID,
		CountryCode: dest.CountryCode,
	})
	if err != nil {
		return nil, err
	}

	return MatchZones(locations, dest, m.selection, func(loc ZoneLocation, err error) {
		pattern, _ := loc.PostalCodePattern.Value()
		m.logger.Warn("Ignoring zone location with malformed postal code pattern",
			zap.String("zone_location_id", loc.ID.String()),
			zap.String("zone_id", loc.ZoneID.String()),
			zap.String("pattern", pattern),
			zap.Error(err),
		)
	}), nil
}
