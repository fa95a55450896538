package dictionary

import (
	"bufio"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/mcoot/dotriacontordle/internal/model"
)

//go:embed words/*.txt
var bundled embed.FS

// Service holds word lists bucketed by length. The loaded lists are the answer
// pools; words learned at runtime are accepted as guesses but never become answers.
type Service struct {
	logger *slog.Logger

	mu      sync.RWMutex
	buckets map[int][]string            // sorted, upper-case, deduplicated
	sets    map[int]map[string]struct{} // membership for each bucket
	learned map[string]struct{}
}

// New creates an empty dictionary
func New(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &Service{
		logger:  logger,
		buckets: make(map[int][]string),
		sets:    make(map[int]map[string]struct{}),
		learned: make(map[string]struct{}),
	}
}

// LoadEmbedded loads the word lists bundled with the binary
func (s *Service) LoadEmbedded() error {
	return s.loadFS(context.Background(), bundled, "words")
}

// LoadFromDir loads every {length}.txt file in dir, replacing the buckets it finds
func (s *Service) LoadFromDir(ctx context.Context, dir string) error {
	return s.loadFS(ctx, os.DirFS(dir), ".")
}

// LoadFromFile loads a single word list and buckets its words by length
func (s *Service) LoadFromFile(ctx context.Context, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	words, err := readWords(ctx, file)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filename, err)
	}
	return s.LoadWords(words)
}

// LoadWords directly loads a slice of words (useful for testing).
// Buckets for the lengths present in words are replaced.
func (s *Service) LoadWords(words []string) error {
	grouped := lo.GroupBy(normalize(words), func(w string) int { return len(w) })
	if len(grouped) == 0 {
		return model.ErrDictionaryNotLoaded
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for length, bucket := range grouped {
		s.setBucket(length, bucket)
	}
	return nil
}

// LoadDictionary returns the word pool for a length, empty if none is loaded.
// The returned slice must not be modified.
func (s *Service) LoadDictionary(wordLength int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buckets[wordLength]
}

// HasDictionary reports whether any words of the given length are loaded
func (s *Service) HasDictionary(wordLength int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[wordLength]) > 0
}

// IsValidWord checks if a word exists in the dictionary, ignoring case
func (s *Service) IsValidWord(word string) bool {
	word = strings.ToUpper(word)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sets[len(word)][word]; ok {
		return true
	}
	_, ok := s.learned[word]
	return ok
}

// AddWord accepts a word as a guess, typically one confirmed by an online lookup.
// Answer pools are unchanged so daily puzzles stay stable.
func (s *Service) AddWord(word string) {
	words := normalize([]string{word})
	if len(words) == 0 {
		return
	}
	word = words[0]

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[len(word)][word]; ok {
		return
	}
	s.learned[word] = struct{}{}
}

// LearnedCount returns the number of words accepted through AddWord
func (s *Service) LearnedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.learned)
}

// IsLoaded returns whether any word list has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets) > 0
}

// WordCount returns the number of words of the given length
func (s *Service) WordCount(wordLength int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[wordLength])
}

// Lengths returns the loaded word lengths in ascending order
func (s *Service) Lengths() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lengths := lo.Keys(s.buckets)
	slices.Sort(lengths)
	return lengths
}

// setBucket must be called with mu held
func (s *Service) setBucket(length int, words []string) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	s.buckets[length] = words
	s.sets[length] = set
}

func (s *Service) loadFS(ctx context.Context, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}

	lists := make([][]string, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range entries {
		if entry.IsDir() || !isListFile(entry.Name()) {
			continue
		}
		g.Go(func() error {
			f, err := fsys.Open(path.Join(dir, entry.Name()))
			if err != nil {
				return err
			}
			defer f.Close()
			words, err := readWords(ctx, f)
			if err != nil {
				return fmt.Errorf("reading %s: %w", entry.Name(), err)
			}
			lists[i] = words
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.LoadWords(lo.Flatten(lists)); err != nil {
		return err
	}
	s.logger.Info("dictionary loaded", slog.Any("lengths", s.Lengths()))
	return nil
}

// isListFile matches names like "6.txt"
func isListFile(name string) bool {
	base, ok := strings.CutSuffix(name, ".txt")
	if !ok {
		return false
	}
	_, err := strconv.Atoi(base)
	return err == nil
}

func readWords(ctx context.Context, r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		if len(words)%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		words = append(words, scanner.Text())
	}
	return words, scanner.Err()
}

// normalize upper-cases, drops anything that is not purely A-Z within the
// supported lengths, then sorts and deduplicates.
func normalize(words []string) []string {
	out := lo.FilterMap(words, func(w string, _ int) (string, bool) {
		w = strings.ToUpper(strings.TrimSpace(w))
		if len(w) < model.MinWordLength || len(w) > model.MaxWordLength {
			return "", false
		}
		for i := 0; i < len(w); i++ {
			if w[i] < 'A' || w[i] > 'Z' {
				return "", false
			}
		}
		return w, true
	})
	slices.Sort(out)
	return slices.Compact(out)
}

// ServiceInterface is the dictionary surface used by the puzzle selector and validators
type ServiceInterface interface {
	LoadDictionary(wordLength int) []string
	HasDictionary(wordLength int) bool
	IsValidWord(word string) bool
	AddWord(word string)
	IsLoaded() bool
	WordCount(wordLength int) int
}

var _ ServiceInterface = (*Service)(nil)

// ErrDictionaryNotLoaded is returned when a load produces no usable words
var ErrDictionaryNotLoaded = model.ErrDictionaryNotLoaded
