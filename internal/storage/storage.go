package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eugenenazirov/pallet-optimizer/internal/pallet"
)

// StandardProfile is the name of the built-in 48x40 in pallet.
const StandardProfile = "standard"

var (
	// ErrProfileNotFound indicates no pallet profile is registered under the requested name.
	ErrProfileNotFound = errors.New("pallet profile not found")
	// ErrInvalidProfiles indicates the provided profiles violate validation rules.
	ErrInvalidProfiles = errors.New("pallet profiles must have unique non-empty names and positive dimensions")
)

// Profile is a named pallet spec.
type Profile struct {
	Name string
	Spec pallet.Spec
}

// Storage provides access to the pallet profiles the optimizer can use.
type Storage interface {
	GetProfile(name string) (Profile, error)
	ListProfiles() ([]Profile, error)
	DefaultProfile() string
}

// MemoryStorage keeps pallet profiles in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu          sync.RWMutex
	profiles    map[string]Profile
	defaultName string
}

// NewMemoryStorage initialises storage with the standard pallet only.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		profiles:    map[string]Profile{StandardProfile: DefaultProfiles()[0]},
		defaultName: StandardProfile,
	}
}

// DefaultProfiles returns the built-in profiles.
func DefaultProfiles() []Profile {
	return []Profile{{Name: StandardProfile, Spec: pallet.Standard()}}
}

// GetProfile returns the profile registered under name. An empty name resolves to the default profile.
func (s *MemoryStorage) GetProfile(name string) (Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := normalizeName(name)
	if key == "" {
		key = s.defaultName
	}
	p, ok := s.profiles[key]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, name)
	}
	return p, nil
}

// ListProfiles returns every registered profile sorted by name.
func (s *MemoryStorage) ListProfiles() ([]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DefaultProfile returns the name used when a request does not pick a pallet.
func (s *MemoryStorage) DefaultProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultName
}

// SetProfiles validates and stores profiles, replacing the current set. The
// standard profile is always kept unless profiles redefine it. defaultName
// must name one of the resulting profiles; empty keeps the standard pallet.
func (s *MemoryStorage) SetProfiles(profiles []Profile, defaultName string) error {
	normalized, err := normalizeProfiles(profiles)
	if err != nil {
		return err
	}

	key := normalizeName(defaultName)
	if key == "" {
		key = StandardProfile
	}
	if _, ok := normalized[key]; !ok {
		return fmt.Errorf("%w: default %q", ErrProfileNotFound, defaultName)
	}

	s.mu.Lock()
	s.profiles = normalized
	s.defaultName = key
	s.mu.Unlock()

	return nil
}

func normalizeProfiles(profiles []Profile) (map[string]Profile, error) {
	out := make(map[string]Profile, len(profiles)+1)
	for _, p := range DefaultProfiles() {
		out[p.Name] = p
	}

	seen := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		name := normalizeName(p.Name)
		if name == "" {
			return nil, ErrInvalidProfiles
		}
		if _, dup := seen[name]; dup {
			return nil, ErrInvalidProfiles
		}
		if err := p.Spec.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidProfiles, p.Name, err)
		}
		seen[name] = struct{}{}
		out[name] = Profile{Name: name, Spec: p.Spec}
	}
	return out, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
