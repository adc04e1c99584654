// Package profile loads and validates user profiles.
package profile

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/feedwise/feedwise/internal/model"
)

// ErrInvalidProfile is wrapped by every validation failure
var ErrInvalidProfile = errors.New("invalid profile")

var idPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

type profilesFile struct {
	Profiles []model.UserProfile `yaml:"profiles"`
}

// Load reads profiles.yaml and validates every entry
func Load(path string) ([]model.UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles file: %w", err)
	}

	var f profilesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse profiles file %s: %w", path, err)
	}
	if len(f.Profiles) == 0 {
		return nil, fmt.Errorf("profiles file %s defines no profiles", path)
	}

	profiles := make([]model.UserProfile, len(f.Profiles))
	for i, p := range f.Profiles {
		profiles[i] = Clean(p)
	}
	if err := ValidateAll(profiles); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return profiles, nil
}

// LoadOrDefault loads path when it exists and falls back to the built-in
// personas otherwise. The boolean reports whether the defaults were used.
func LoadOrDefault(path string) ([]model.UserProfile, bool, error) {
	if path == "" {
		return Defaults(), true, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Defaults(), true, nil
	}
	profiles, err := Load(path)
	return profiles, false, err
}

// Marshal renders profiles in the profiles.yaml layout
func Marshal(profiles []model.UserProfile) ([]byte, error) {
	return yaml.Marshal(profilesFile{Profiles: profiles})
}

// Clean trims whitespace and drops blank list entries
func Clean(p model.UserProfile) model.UserProfile {
	p.ID = strings.TrimSpace(p.ID)
	p.DisplayName = strings.TrimSpace(p.DisplayName)
	p.Email = strings.TrimSpace(p.Email)
	p.Interests = cleanList(p.Interests)
	p.PreferredSources = cleanList(p.PreferredSources)
	p.PreferredCategories = cleanList(p.PreferredCategories)
	p.ExcludedKeywords = cleanList(p.ExcludedKeywords)
	return p
}

// Validate checks a single profile. A profile without interests or sources
// is valid; it is scored in the degraded recency-only mode.
func Validate(p model.UserProfile) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProfile)
	}
	if !idPattern.MatchString(p.ID) {
		return fmt.Errorf("%w: id %q must be lowercase letters, digits, '.', '_' or '-'", ErrInvalidProfile, p.ID)
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Errorf("%w: %s: email %q: %v", ErrInvalidProfile, p.ID, p.Email, err)
		}
	}
	if p.MaxTopStories < 0 {
		return fmt.Errorf("%w: %s: max_top_stories must not be negative", ErrInvalidProfile, p.ID)
	}
	return nil
}

// ValidateAll validates each profile and rejects duplicate ids
func ValidateAll(profiles []model.UserProfile) error {
	seen := make(map[string]bool, len(profiles))
	var errs []error
	for _, p := range profiles {
		if err := Validate(p); err != nil {
			errs = append(errs, err)
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%w: duplicate id %q", ErrInvalidProfile, p.ID))
		}
		seen[p.ID] = true
	}
	return errors.Join(errs...)
}

// Select returns the profiles whose id is listed. An empty list selects all.
func Select(profiles []model.UserProfile, ids []string) ([]model.UserProfile, error) {
	if len(ids) == 0 {
		return profiles, nil
	}
	byID := make(map[string]model.UserProfile, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}
	out := make([]model.UserProfile, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[strings.TrimSpace(id)]
		if !ok {
			return nil, fmt.Errorf("unknown profile %q", id)
		}
		out = append(out, p)
	}
	return out, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
