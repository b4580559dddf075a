// Package source loads annotated documents from local files and remote URLs.
package source

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"timeliner/internal/config"
	appLog "timeliner/internal/log"
	"timeliner/internal/model"
)

// Source is one configured document source.
type Source struct {
	ID   string
	Path string
	URL  string
}

// FromConfig converts configured sources, skipping entries with neither a
// path nor a URL.
func FromConfig(cfgs []config.SourceConfig) []Source {
	out := make([]Source, 0, len(cfgs))
	for _, c := range cfgs {
		if c.Path == "" && c.URL == "" {
			continue
		}
		out = append(out, Source{ID: c.ID, Path: c.Path, URL: c.URL})
	}
	return out
}

// Decode parses an annotated documents file.
func Decode(body []byte) ([]model.Document, error) {
	var set model.DocumentSet
	if err := yaml.Unmarshal(body, &set); err != nil {
		return nil, errors.Wrap(err, "decode documents")
	}
	return set.Documents, nil
}

// LoadFile reads and decodes one local documents file.
func LoadFile(path string) ([]model.Document, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	docs, err := Decode(body)
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", path)
	}
	return docs, nil
}

// Loader reads documents from a list of sources.
type Loader struct {
	fetcher *Fetcher
}

func NewLoader(fetcher *Fetcher) *Loader {
	return &Loader{fetcher: fetcher}
}

// LoadAll loads every source. Failures are logged and returned alongside
// the documents that did load.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) ([]model.Document, []error) {
	docs := make([]model.Document, 0)
	errs := make([]error, 0)

	for _, src := range sources {
		loaded, err := l.Load(ctx, src)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("source load failed", err, "id", src.ID)
			continue
		}
		docs = append(docs, loaded...)
	}
	return docs, errs
}

// Load loads one source. Remote sources take precedence over paths.
func (l *Loader) Load(ctx context.Context, src Source) ([]model.Document, error) {
	if src.URL == "" {
		return LoadFile(src.Path)
	}

	res, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	docs, err := Decode(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "source %s", src.ID)
	}
	return docs, nil
}
