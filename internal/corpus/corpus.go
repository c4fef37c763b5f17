package corpus

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/TaniaZeidan/NutriTrackAI/internal/domain"
)

// ErrCorpusFormat indicates the recipe corpus is structurally unusable:
// a required column is missing or too many rows are malformed.
var ErrCorpusFormat = errors.New("malformed recipe corpus")

var requiredColumns = []string{"title", "ingredients", "steps"}

// Loader reads recipe records from a CSV corpus file in source row order,
// so IDs derived from row position are stable across reloads.
type Loader struct {
	path      string
	tolerance float64
	log       *slog.Logger
}

// NewLoader creates a corpus loader. tolerance is the fraction of data rows
// that may be skipped as malformed before loading fails entirely.
func NewLoader(path string, tolerance float64, log *slog.Logger) *Loader {
	if tolerance < 0 {
		tolerance = 0
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{path: path, tolerance: tolerance, log: log}
}

// Path returns the corpus file location.
func (l *Loader) Path() string { return l.path }

// Load parses the corpus into recipe records. Malformed rows are skipped
// with a warning; when their share exceeds the tolerance the whole load
// fails with ErrCorpusFormat.
func (l *Loader) Load() ([]domain.Recipe, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file %s", ErrCorpusFormat, l.path)
		}
		return nil, fmt.Errorf("read corpus header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing required column %q", ErrCorpusFormat, name)
		}
	}

	var (
		recipes []domain.Recipe
		rows    int
		skipped int
	)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row := rows
		rows++
		if err != nil {
			l.log.Warn("skipping unparsable corpus row", "row", row, "err", err)
			skipped++
			continue
		}
		rec, err := l.parseRow(cols, record, row)
		if err != nil {
			l.log.Warn("skipping malformed corpus row", "row", row, "err", err)
			skipped++
			continue
		}
		recipes = append(recipes, rec)
	}

	if rows > 0 && float64(skipped) > l.tolerance*float64(rows) {
		return nil, fmt.Errorf("%w: %d of %d rows malformed (tolerance %.0f%%)",
			ErrCorpusFormat, skipped, rows, l.tolerance*100)
	}
	return recipes, nil
}

func (l *Loader) parseRow(cols map[string]int, record []string, row int) (domain.Recipe, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	title := field("title")
	if title == "" {
		return domain.Recipe{}, errors.New("empty title")
	}
	rawIngredients := field("ingredients")
	rawSteps := field("steps")
	rawTags := field("tags")

	calories, err := parseMacro(field("per_serving_calories"))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("per_serving_calories: %w", err)
	}
	protein, err := parseMacro(field("protein_g"))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("protein_g: %w", err)
	}
	carbs, err := parseMacro(field("carb_g"))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("carb_g: %w", err)
	}
	fat, err := parseMacro(field("fat_g"))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("fat_g: %w", err)
	}
	servings, err := parseServings(field("servings"))
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("servings: %w", err)
	}

	return domain.Recipe{
		ID:          fmt.Sprintf("recipe-%d", row),
		Title:       title,
		Ingredients: splitList(rawIngredients, "|"),
		Steps:       splitSteps(rawSteps),
		Tags:        splitList(rawTags, ";"),
		Servings:    servings,
		Calories:    calories,
		ProteinG:    protein,
		CarbG:       carbs,
		FatG:        fat,
		SearchText:  searchText(title, rawIngredients, rawSteps, rawTags),
	}, nil
}

// searchText concatenates the fields a query should match against.
func searchText(title, ingredients, steps, tags string) string {
	return strings.Join([]string{
		title,
		strings.ReplaceAll(ingredients, "|", ", "),
		steps,
		"Tags: " + tags,
	}, "\n")
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

var stepSentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)

// splitSteps breaks instruction text into one step per sentence, with the
// terminator stripped.
func splitSteps(raw string) []string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}
	if !strings.ContainsAny(text[len(text)-1:], ".!?") {
		text += "."
	}
	var out []string
	for _, part := range stepSentenceRe.FindAllString(text, -1) {
		if p := strings.TrimRight(strings.TrimSpace(part), ".!?"); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMacro(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func parseServings(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// Fingerprint hashes the corpus file content together with its data row
// count. It is cheap enough to run before every build and changes whenever
// the source file changes.
func (l *Loader) Fingerprint() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("fingerprint corpus: %w", err)
	}
	sum := sha256.Sum256(data)
	return fmt.Sprintf("sha256:%s:%d", hex.EncodeToString(sum[:]), countDataRows(data)), nil
}

func countDataRows(data []byte) int {
	rows := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			rows++
		}
	}
	if rows > 0 {
		rows-- // header
	}
	return rows
}
