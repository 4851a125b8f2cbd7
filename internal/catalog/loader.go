package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// ErrUnsupportedVersion is returned for bundles outside the supported major version.
var ErrUnsupportedVersion = errors.New("unsupported catalog version")

// SupportedMajor is the bundle major version this loader understands.
const SupportedMajor = "v1"

// rawRecordSchema is the minimum shape a raw record must have before it is
// normalized. Only id and question are required; everything else is defaulted.
const rawRecordSchema = `{
	"type": "object",
	"required": ["id", "question"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"question": {"type": "string", "minLength": 1},
		"domain": {"type": ["string", "null"]},
		"subdomain": {"type": ["string", "null"]},
		"difficulty": {"type": ["string", "null"]},
		"type": {"type": ["string", "null"]},
		"options": {
			"type": ["array", "null"],
			"items": {
				"type": "object",
				"required": ["id", "text"],
				"properties": {
					"id": {"type": "string"},
					"text": {"type": "string"}
				}
			}
		},
		"correct": {"type": ["array", "null"], "items": {"type": "string"}},
		"explanation": {"type": ["string", "null"]},
		"references": {"type": ["array", "null"], "items": {"type": "string"}},
		"tags": {"type": ["array", "null"], "items": {"type": "string"}},
		"maarek_reference": {"type": ["string", "null"]}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// recordSchema compiles the raw record schema once.
func recordSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(rawRecordSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse record schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://catalog-record.json"
		if err := c.AddResource(url, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

// rawQuestion is the loose on-disk shape of a catalog record.
type rawQuestion struct {
	ID              string     `json:"id"`
	Domain          string     `json:"domain"`
	Subdomain       string     `json:"subdomain"`
	Difficulty      string     `json:"difficulty"`
	Type            string     `json:"type"`
	Question        string     `json:"question"`
	Diagram         *Diagram   `json:"diagram"`
	Table           *Table     `json:"table"`
	Options         []Option   `json:"options"`
	Correct         []OptionID `json:"correct"`
	Explanation     string     `json:"explanation"`
	References      []string   `json:"references"`
	Tags            []string   `json:"tags"`
	MaarekReference string     `json:"maarek_reference"`
}

// bundle is the versioned envelope form of a catalog document.
type bundle struct {
	Version   string            `json:"version"`
	Questions []json.RawMessage `json:"questions"`
}

// Load reads one catalog document: a JSON array of records or a versioned
// bundle. Any record that cannot be admitted fails the whole load.
func Load(r io.Reader) ([]Question, error) {
	return load(r, "")
}

// LoadFS loads every file matching pattern in fsys, in lexical order.
func LoadFS(fsys fs.FS, pattern string) ([]Question, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	sort.Strings(names)

	var all []Question
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		qs, err := load(f, name)
		f.Close()
		if err != nil {
			return nil, err
		}
		all = append(all, qs...)
	}
	return all, nil
}

func load(r io.Reader, source string) ([]Question, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	records, err := splitDocument(data, source)
	if err != nil {
		return nil, err
	}

	schema, err := recordSchema()
	if err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(records))
	for i, rec := range records {
		var parsed any
		if err := json.Unmarshal(rec, &parsed); err != nil {
			return nil, &LoadError{Source: source, Index: i, Err: fmt.Errorf("invalid JSON: %w", err)}
		}
		if err := schema.Validate(parsed); err != nil {
			return nil, &LoadError{Source: source, Index: i, ID: idOf(parsed), Err: fmt.Errorf("schema validation failed: %w", err)}
		}

		var raw rawQuestion
		if err := json.Unmarshal(rec, &raw); err != nil {
			return nil, &LoadError{Source: source, Index: i, ID: idOf(parsed), Err: err}
		}
		q, err := normalize(raw)
		if err != nil {
			return nil, &LoadError{Source: source, Index: i, ID: raw.ID, Err: err}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// splitDocument returns the raw records of an array or bundle document.
func splitDocument(data []byte, source string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%sdecode catalog array: %w", sourcePrefix(source), err)
		}
		return records, nil
	}

	var b bundle
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return nil, fmt.Errorf("%sdecode catalog bundle: %w", sourcePrefix(source), err)
	}
	if !semver.IsValid(b.Version) || semver.Major(b.Version) != SupportedMajor {
		return nil, fmt.Errorf("%sbundle version %q: %w", sourcePrefix(source), b.Version, ErrUnsupportedVersion)
	}
	return b.Questions, nil
}

// normalize applies the defaulting rules and checks invariants.
func normalize(raw rawQuestion) (Question, error) {
	domain, err := ParseDomainKey(raw.Domain)
	if err != nil {
		return Question{}, err
	}

	q := Question{
		ID:          raw.ID,
		Domain:      domain,
		Subdomain:   raw.Subdomain,
		Difficulty:  normalizeDifficulty(raw.Difficulty),
		Type:        TypeSingleChoice,
		Prompt:      raw.Question,
		Diagram:     raw.Diagram,
		Table:       raw.Table,
		Options:     nonNil(raw.Options),
		Correct:     nonNil(raw.Correct),
		Explanation: raw.Explanation,
		References:  nonNil(raw.References),
		Tags:        nonNil(raw.Tags),
		CourseRef:   raw.MaarekReference,
	}
	if raw.Type == string(TypeMultipleChoice) {
		q.Type = TypeMultipleChoice
	}

	if err := validateQuestion(q); err != nil {
		return Question{}, err
	}
	return q, nil
}

func normalizeDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func idOf(parsed any) string {
	if m, ok := parsed.(map[string]any); ok {
		if id, ok := m["id"].(string); ok {
			return id
		}
	}
	return ""
}

func sourcePrefix(source string) string {
	if source == "" {
		return ""
	}
	return source + ": "
}
