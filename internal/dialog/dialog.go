// Package dialog renders spoken responses from line-per-alternative
// templates with {{name}} placeholders.
package dialog

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path"
	"regexp"
	"strings"
)

//go:embed locale
var locales embed.FS

var ErrUnknownDialog = errors.New("unknown dialog")

const (
	Done     = "done"
	Whoops   = "whoops"
	Error    = "error"
	ext      = ".dialog"
	fallback = "en-us"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Picker chooses one of n alternatives.
type Picker func(n int) int

func RandomPicker(n int) int { return rand.IntN(n) }

func FirstPicker(int) int { return 0 }

type Renderer struct {
	lang      string
	templates map[string][]string
	pick      Picker
}

type Option func(*Renderer)

func WithPicker(p Picker) Option {
	return func(r *Renderer) { r.pick = p }
}

// New loads the embedded templates for lang. Unknown languages fall back
// to en-us.
func New(lang string, opts ...Option) (*Renderer, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = fallback
	}
	if _, err := fs.Stat(locales, path.Join("locale", lang)); err != nil {
		lang = fallback
	}

	r := &Renderer{
		lang:      lang,
		templates: make(map[string][]string),
		pick:      RandomPicker,
	}
	for _, opt := range opts {
		opt(r)
	}

	dir := path.Join("locale", lang)
	entries, err := fs.ReadDir(locales, dir)
	if err != nil {
		return nil, fmt.Errorf("reading dialogs: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		data, err := fs.ReadFile(locales, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading dialog %s: %w", e.Name(), err)
		}
		lines := parseLines(string(data))
		if len(lines) == 0 {
			continue
		}
		r.templates[strings.TrimSuffix(e.Name(), ext)] = lines
	}

	return r, nil
}

func parseLines(s string) []string {
	var lines []string
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func (r *Renderer) Lang() string {
	return r.lang
}

func (r *Renderer) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// Render picks one alternative for id and fills its placeholders from data.
// Placeholders without a value render empty.
func (r *Renderer) Render(id string, data map[string]any) (string, error) {
	lines, ok := r.templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDialog, id)
	}

	i := r.pick(len(lines))
	if i < 0 || i >= len(lines) {
		i = 0
	}

	out := placeholder.ReplaceAllStringFunc(lines[i], func(m string) string {
		key := placeholder.FindStringSubmatch(m)[1]
		v, ok := data[key]
		if !ok {
			return ""
		}
		return fmt.Sprint(v)
	})

	return strings.Join(strings.Fields(out), " "), nil
}
