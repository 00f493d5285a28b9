package poi

import (
	"sort"
	"strings"
)

// ClassifierConfig externalizes the substring and tag heuristics used to
// categorize raw provider kinds. Provider taxonomies vary, so deployments
// can override the tables without code changes.
type ClassifierConfig struct {
	// ParkSubstrings mark a raw kind as a park.
	ParkSubstrings []string

	// FootwaySubstrings mark a raw kind as a footway or path.
	FootwaySubstrings []string

	// PetAccessTagNames are tag keys whose value grants pet access.
	PetAccessTagNames []string

	// PetAccessValues are tag values that grant pet access.
	PetAccessValues []string
}

// DefaultClassifierConfig matches the OSM taxonomy.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ParkSubstrings:    []string{"park"},
		FootwaySubstrings: []string{"foot", "path"},
		PetAccessTagNames: []string{"dogs", "pets", "dog", "pet"},
		PetAccessValues:   []string{"yes", "permissive", "leashed"},
	}
}

// Classify fills Kind, PetFriendly and EnvironmentTags on the candidate
// from its raw kind and tags. Environment tags are additive and sorted.
func (cfg ClassifierConfig) Classify(c *Candidate) {
	raw := strings.ToLower(c.RawKind)

	pet := c.PetFriendly || cfg.hasPetAccess(c.Tags)

	var kind Kind
	switch {
	case containsAny(raw, cfg.ParkSubstrings):
		kind = KindPark
	case containsAny(raw, cfg.FootwaySubstrings):
		kind = KindFootway
	case pet:
		kind = KindPetFriendly
	default:
		kind = KindOther
	}

	env := make(map[string]struct{}, 4)
	for _, t := range c.EnvironmentTags {
		env[t] = struct{}{}
	}
	if kind == KindPark {
		env["grass"] = struct{}{}
		env["shade"] = struct{}{}
	}
	if _, ok := c.Tags["water"]; ok {
		env["water"] = struct{}{}
	}
	if pet {
		env["pet_friendly"] = struct{}{}
	}

	c.Kind = kind
	c.PetFriendly = pet
	c.EnvironmentTags = sortedTags(env)
}

func (cfg ClassifierConfig) hasPetAccess(tags map[string]string) bool {
	for _, name := range cfg.PetAccessTagNames {
		v, ok := tags[name]
		if !ok {
			continue
		}
		v = strings.ToLower(v)
		for _, allowed := range cfg.PetAccessValues {
			if v == allowed {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func sortedTags(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
