package config

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/go2048/game/engine"
)

//go:embed rulesets/*.json
var builtinRulesets embed.FS

const (
	builtinDir = "rulesets"

	// DefaultRulesetName is used when no ruleset is selected
	DefaultRulesetName = "standard"

	SourceBuiltin   = "builtin"
	SourceDirectory = "directory"
)

var (
	ErrRulesetNotFound = errors.New("ruleset not found")
	ErrInvalidRuleset  = engine.ErrInvalidRuleset
)

// RulesetInfo provides information about an available ruleset
type RulesetInfo struct {
	Filename        string  `json:"filename"`
	RulesetID       string  `json:"ruleset_id"` // The identifier to pass to LoadRuleset
	Name            string  `json:"name"`       // Display name
	Description     string  `json:"description"`
	WinningTile     int     `json:"winning_tile"`
	FourProbability float64 `json:"four_probability"`
	SpawnOnNoop     bool    `json:"spawn_on_noop"`
	Source          string  `json:"source"`
}

// Manager handles ruleset loading and caching
type Manager struct {
	rulesDir       string
	defaultRuleset *engine.Ruleset
	rulesets       map[string]*engine.Ruleset
	mu             sync.RWMutex
}

// NewManager creates a new ruleset manager. rulesDir is optional; when set
// it must exist and its rulesets take precedence over the built-in ones.
func NewManager(rulesDir string) (*Manager, error) {
	if rulesDir != "" {
		info, err := os.Stat(rulesDir)
		if err != nil {
			return nil, fmt.Errorf("rules directory does not exist: %s", rulesDir)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("rules path is not a directory: %s", rulesDir)
		}
	}

	m := &Manager{
		rulesDir: rulesDir,
		rulesets: make(map[string]*engine.Ruleset),
	}

	if err := m.loadDefaultRuleset(); err != nil {
		return nil, fmt.Errorf("failed to load default ruleset: %w", err)
	}

	return m, nil
}

// LoadRuleset loads a ruleset by name. The caller receives its own copy.
func (m *Manager) LoadRuleset(name string) (*engine.Ruleset, error) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: %q", ErrRulesetNotFound, name)
	}

	m.mu.RLock()
	// Check cache first
	if rules, exists := m.rulesets[name]; exists {
		m.mu.RUnlock()
		return copyRuleset(rules), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if rules, exists := m.rulesets[name]; exists {
		return copyRuleset(rules), nil
	}

	data, err := m.readRuleset(name)
	if err != nil {
		return nil, err
	}

	rules, err := parseRuleset(data)
	if err != nil {
		return nil, fmt.Errorf("ruleset %q: %w", name, err)
	}

	m.rulesets[name] = rules
	return copyRuleset(rules), nil
}

// ListRulesets returns information about every loadable ruleset, sorted by ID
func (m *Manager) ListRulesets() ([]*RulesetInfo, error) {
	sources := make(map[string]string)

	entries, err := fs.ReadDir(builtinRulesets, builtinDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in rulesets: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			sources[strings.TrimSuffix(entry.Name(), ".json")] = SourceBuiltin
		}
	}

	if m.rulesDir != "" {
		entries, err := os.ReadDir(m.rulesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read rules directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
				sources[strings.TrimSuffix(entry.Name(), ".json")] = SourceDirectory
			}
		}
	}

	ids := make([]string, 0, len(sources))
	for id := range sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var infos []*RulesetInfo
	for _, id := range ids {
		rules, err := m.LoadRuleset(id)
		if err != nil {
			// Skip invalid rulesets
			continue
		}

		infos = append(infos, &RulesetInfo{
			Filename:        id + ".json",
			RulesetID:       id,
			Name:            rules.Name,
			Description:     rules.Description,
			WinningTile:     rules.WinningTile,
			FourProbability: rules.FourProbability,
			SpawnOnNoop:     rules.SpawnOnNoop,
			Source:          sources[id],
		})
	}

	return infos, nil
}

// GetDefault returns the default ruleset
func (m *Manager) GetDefault() *engine.Ruleset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyRuleset(m.defaultRuleset)
}

// SetDefault sets the default ruleset by name
func (m *Manager) SetDefault(name string) error {
	rules, err := m.LoadRuleset(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultRuleset = rules
	return nil
}

// loadDefaultRuleset loads the standard ruleset, falling back to the
// engine's compiled-in rules when it cannot be read
func (m *Manager) loadDefaultRuleset() error {
	rules, err := m.LoadRuleset(DefaultRulesetName)
	if err != nil {
		if !errors.Is(err, ErrRulesetNotFound) {
			return err
		}
		rules = engine.DefaultRuleset()
	}

	m.defaultRuleset = rules
	return nil
}

// readRuleset returns the raw JSON for name, preferring the rules directory
func (m *Manager) readRuleset(name string) ([]byte, error) {
	filename := name + ".json"

	if m.rulesDir != "" {
		data, err := os.ReadFile(filepath.Join(m.rulesDir, filename))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read ruleset file: %w", err)
		}
	}

	data, err := builtinRulesets.ReadFile(builtinDir + "/" + filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrRulesetNotFound, name)
		}
		return nil, fmt.Errorf("failed to read built-in ruleset: %w", err)
	}

	return data, nil
}

// parseRuleset decodes and validates a ruleset document
func parseRuleset(data []byte) (*engine.Ruleset, error) {
	var rules engine.Ruleset
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("%w: failed to parse: %v", ErrInvalidRuleset, err)
	}
	rules.Size = engine.DefaultSize

	if err := engine.ValidateRuleset(&rules); err != nil {
		return nil, err
	}

	return &rules, nil
}

func copyRuleset(rules *engine.Ruleset) *engine.Ruleset {
	if rules == nil {
		return nil
	}
	c := *rules
	return &c
}
