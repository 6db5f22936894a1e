/*
Copyright © 2026 the nctable authors.
This file is part of nctable.

nctable is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nctable is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nctable.  If not, see <http://www.gnu.org/licenses/>.
*/

package nctable

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/nctable/internal/hash"
)

// RequestContext holds a user's current selections.
type RequestContext struct {
	// Variable is the name of the selected data variable.
	Variable string

	// Rows and Columns are the axes the user placed on each side of the
	// table. Axes in neither list become row axes.
	Rows, Columns []string

	// Preview and Export are the unparsed row limits for the preview
	// and the exported file. See ParseLimit.
	Preview, Export string
}

// Stats reports the activity of the session caches.
type Stats struct {
	Decode, Flatten, Pivot TierStats
}

// Session holds one user's dataset and caches the results derived from
// it. Loading a different file discards both. A Session is safe for
// concurrent use.
type Session struct {
	// Decoder decodes uploaded files.
	Decoder Decoder

	// Log receives the session's log messages.
	Log logrus.FieldLogger

	flatten func(*Variable) (*Table, error)

	decoded, flattened, pivoted *tier

	mu  sync.Mutex
	gen uint64
	ds  *Dataset

	// id is the payload id of ds, or of the payload being loaded
	// while ds is nil.
	id string
}

// NewSession returns a session whose cache tiers each hold up to
// maxEntries results.
func NewSession(maxEntries int) *Session {
	return &Session{
		Decoder:   NetCDF,
		Log:       logrus.StandardLogger(),
		flatten:   Flatten,
		decoded:   newTier(maxEntries),
		flattened: newTier(maxEntries),
		pivoted:   newTier(maxEntries),
	}
}

// Load makes the dataset held in payload the session's current dataset.
// Loading the same bytes again keeps the current dataset and its cached
// results, whatever id the Decoder gives the dataset. Loading different
// bytes first discards them, even if decoding then fails.
func (s *Session) Load(ctx context.Context, payload []byte) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	id := hash.Payload(payload)
	log := s.Log.WithField("dataset", shortID(id))

	s.mu.Lock()
	if s.ds != nil && s.id == id {
		ds := s.ds
		s.mu.Unlock()
		log.Debug("reusing loaded dataset")
		return ds, nil
	}
	// A load of the same payload that is still decoding is joined.
	gen := s.gen
	if s.id != id {
		gen = s.advance()
		s.id = id
	}
	s.mu.Unlock()

	v, err := s.decoded.get(id, gen, func() (interface{}, error) {
		log.WithField("bytes", len(payload)).Info("decoding dataset")
		return s.Decoder.Decode(payload)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if s.gen == gen && s.ds == nil {
			s.id = ""
		}
		log.WithError(err).Warn("loading dataset")
		return nil, err
	}
	if s.gen != gen {
		return nil, ErrSuperseded
	}
	ds := v.(*Dataset)
	s.ds = ds
	log.WithField("variables", ds.Variables()).Info("dataset loaded")
	return ds, nil
}

// advance moves the session to a new generation with no dataset and
// empty caches. s.mu must be held.
func (s *Session) advance() uint64 {
	s.gen++
	s.ds = nil
	s.id = ""
	s.decoded.purge(s.gen)
	s.flattened.purge(s.gen)
	s.pivoted.purge(s.gen)
	return s.gen
}

// Dataset returns the current dataset.
func (s *Session) Dataset() (*Dataset, error) {
	ds, _, err := s.current()
	return ds, err
}

func (s *Session) current() (*Dataset, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ds == nil {
		return nil, s.gen, ErrNoDataset
	}
	return s.ds, s.gen, nil
}

// Reset discards the current dataset and all cached results.
func (s *Session) Reset() {
	s.mu.Lock()
	s.advance()
	s.mu.Unlock()
	s.Log.Debug("session reset")
}

// Table returns the full table for the variable and axis partition
// selected in rc.
func (s *Session) Table(ctx context.Context, rc RequestContext) (*Table, error) {
	ds, gen, err := s.current()
	if err != nil {
		return nil, err
	}
	v, err := ds.Variable(rc.Variable)
	if err != nil {
		return nil, err
	}
	p, err := NewPartition(v.Dims, rc.Rows, rc.Columns)
	if err != nil {
		return nil, err
	}
	ft, err := s.flatTable(ctx, ds, gen, v)
	if err != nil {
		return nil, err
	}
	if len(p.Columns) == 0 {
		return ft, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := hash.Fingerprint(ds.ID(), v.Name, p.Rows, p.Columns)
	t, err := s.pivoted.get(key, gen, func() (interface{}, error) {
		s.Log.WithFields(logrus.Fields{
			"dataset":  shortID(ds.ID()),
			"variable": v.Name,
			"rows":     p.Rows,
			"columns":  p.Columns,
		}).Debug("pivoting table")
		return Pivot(ft, p.Rows, p.Columns)
	})
	if err != nil {
		return nil, err
	}
	return t.(*Table), nil
}

func (s *Session) flatTable(ctx context.Context, ds *Dataset, gen uint64, v *Variable) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, err := s.flattened.get(hash.Fingerprint(ds.ID(), v.Name), gen, func() (interface{}, error) {
		s.Log.WithFields(logrus.Fields{
			"dataset":  shortID(ds.ID()),
			"variable": v.Name,
		}).Debug("flattening variable")
		return s.flatten(v)
	})
	if err != nil {
		return nil, err
	}
	return t.(*Table), nil
}

// Preview returns the first rows of the selected table, as many as
// rc.Preview allows.
func (s *Session) Preview(ctx context.Context, rc RequestContext) (*Table, error) {
	t, err := s.Table(ctx, rc)
	if err != nil {
		return nil, err
	}
	return Window(t, ParseLimit(rc.Preview)), nil
}

// Export writes the selected table, limited by rc.Export, to a
// spreadsheet. Exports are not cached.
func (s *Session) Export(ctx context.Context, rc RequestContext) (*Artifact, error) {
	t, err := s.Table(ctx, rc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := ParseLimit(rc.Export)
	a, err := Export(t, l, rc.Variable)
	if err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{
		"variable": rc.Variable,
		"limit":    l.String(),
		"file":     a.FileName,
		"bytes":    len(a.Data),
	}).Info("exported table")
	return a, nil
}

// Summary returns descriptive statistics of the flattened table of the
// selected variable.
func (s *Session) Summary(ctx context.Context, rc RequestContext) (*Summary, error) {
	ds, gen, err := s.current()
	if err != nil {
		return nil, err
	}
	v, err := ds.Variable(rc.Variable)
	if err != nil {
		return nil, err
	}
	t, err := s.flatTable(ctx, ds, gen, v)
	if err != nil {
		return nil, err
	}
	return Summarize(t), nil
}

// Stats returns the cache statistics of the session.
func (s *Session) Stats() Stats {
	return Stats{
		Decode:  s.decoded.stats(),
		Flatten: s.flattened.stats(),
		Pivot:   s.pivoted.stats(),
	}
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
