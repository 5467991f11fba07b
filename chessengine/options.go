package chessengine

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"chessengine/board"
	"chessengine/search"
)

// Options is the embedder-facing configuration surface: everything the
// search and board packages accept that this module chooses not to hardcode.
// Mirrors the reference engine's own config-struct convention (a plain
// struct, populated with defaults by a constructor, overridable
// field-by-field) rather than a builder or functional-options API.
type Options struct {
	TTSizeBytes     int64 `yaml:"tt_size_bytes"`
	UseQuiescence   bool  `yaml:"use_quiescence"`
	UsePVS          bool  `yaml:"use_pvs"`
	NullMoveEnabled bool  `yaml:"null_move_enabled"`
	Seed            int64 `yaml:"seed"`
}

const defaultTTSizeBytes = 64 * 1024 * 1024

// DefaultOptions returns the specification's default knob settings.
func DefaultOptions() Options {
	return Options{
		TTSizeBytes:     defaultTTSizeBytes,
		UseQuiescence:   true,
		UsePVS:          true,
		NullMoveEnabled: false,
		Seed:            board.DefaultZobristSeed,
	}
}

// LoadOptionsYAML reads Options from a YAML file, starting from
// DefaultOptions so a file that only overrides a handful of fields leaves
// the rest at their defaults — the same decode-over-defaults shape the
// reference corpus's own yamlbook/epd config loaders use.
func LoadOptionsYAML(path string) (Options, error) {
	opts := DefaultOptions()
	f, err := os.Open(path)
	if err != nil {
		return opts, fmt.Errorf("chessengine: open options file: %w", err)
	}
	defer f.Close()
	if err := yaml.NewDecoder(f).Decode(&opts); err != nil {
		return opts, fmt.Errorf("chessengine: decode options file: %w", err)
	}
	return opts, nil
}

func (o Options) searchOptions() search.Options {
	sizeMB := int(o.TTSizeBytes / (1024 * 1024))
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return search.Options{
		UsePVS:            o.UsePVS,
		UseQuiescence:     o.UseQuiescence,
		NullMoveEnabled:   o.NullMoveEnabled,
		AspirationEnabled: true,
		TTSizeMB:          sizeMB,
	}
}

// Engine keeps one Searcher alive across many searches, the way a
// long-running UCI session would, so the transposition table persists from
// move to move. Killer, counter-move and history tables are cleared at the
// start of every search.
type Engine struct {
	searcher *search.Searcher
}

// NewEngine builds an Engine from opts, applying opts.Seed to the board
// package's default Zobrist table before any positions are created from it.
func NewEngine(opts Options) *Engine {
	board.SetZobristSeed(opts.Seed)
	tt := search.NewTable(int(opts.TTSizeBytes / (1024 * 1024)))
	return &Engine{searcher: search.NewSearcher(tt, opts.searchOptions())}
}

// Search runs iterative deepening on p under limit, calling sink once per
// completed depth, and returns the best move found.
func (e *Engine) Search(p *Position, limit SearchLimit, sink InfoSink) Move {
	return e.searcher.Search(p, limit, sink)
}

// Stop requests cooperative cancellation of an in-progress Search.
func (e *Engine) Stop() { e.searcher.Stop() }

var (
	defaultEngineOnce sync.Once
	defaultEngine     *Engine
)

func defaultEngineInstance() *Engine {
	defaultEngineOnce.Do(func() {
		defaultEngine = NewEngine(DefaultOptions())
	})
	return defaultEngine
}

// Search runs a search on p under limit using a package-level default
// Engine (default options, lazily built on first use), for embedders who
// want a plain function call rather than managing an Engine themselves.
// Calling NewEngine directly and using its Search method keeps the
// transposition table and history private to that engine instead of
// sharing the package default.
func Search(p *Position, limit SearchLimit, sink InfoSink) Move {
	return defaultEngineInstance().Search(p, limit, sink)
}
