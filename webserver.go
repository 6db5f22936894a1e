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
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"math"
	"mime"
	"net/http"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCookie is the name of the cookie that identifies a user's session.
const SessionCookie = "nctable_session"

// Server serves the table pipeline over HTTP. Each client gets its own
// Session, identified by a cookie.
type Server struct {
	// Log receives request logs.
	Log logrus.FieldLogger

	// MaxUploadBytes is the largest accepted upload.
	MaxUploadBytes int64

	cacheEntries int
	mux          *http.ServeMux

	mu       sync.Mutex
	sessions *lru.Cache
}

// NewServer returns a server that keeps at most maxSessions sessions,
// each caching up to cacheEntries results per tier.
func NewServer(maxSessions, cacheEntries int, maxUploadBytes int64) *Server {
	s := &Server{
		Log:            logrus.StandardLogger(),
		MaxUploadBytes: maxUploadBytes,
		cacheEntries:   cacheEntries,
		sessions:       lru.New(maxSessions),
		mux:            http.NewServeMux(),
	}
	s.mux.HandleFunc("/upload", s.uploadHandler)
	s.mux.HandleFunc("/dataset", s.datasetHandler)
	s.mux.HandleFunc("/preview", s.previewHandler)
	s.mux.HandleFunc("/export", s.exportHandler)
	s.mux.HandleFunc("/summary", s.summaryHandler)
	s.mux.HandleFunc("/reset", s.resetHandler)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// session returns the session of the client making r, starting a new one
// if the client has none or its session has been evicted.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, err := r.Cookie(SessionCookie); err == nil {
		if ss, ok := s.sessions.Get(c.Value); ok {
			return c.Value, ss.(*Session)
		}
	}
	id := uuid.New().String()
	ss := NewSession(s.cacheEntries)
	ss.Log = s.Log.WithField("session", id)
	s.sessions.Add(id, ss)
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: id, Path: "/", HttpOnly: true})
	return id, ss
}

func (s *Server) uploadHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	id, ss := s.session(w, r)
	if s.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			s.fail(w, id, &uploadTooLargeError{limit: s.MaxUploadBytes})
			return
		}
		s.fail(w, id, &requestError{fmt.Errorf("reading upload: %v", err)})
		return
	}
	defer f.Close()
	payload, err := ioutil.ReadAll(f)
	if err != nil {
		if tooLarge(err) {
			s.fail(w, id, &uploadTooLargeError{limit: s.MaxUploadBytes})
			return
		}
		s.fail(w, id, &requestError{fmt.Errorf("reading upload: %v", err)})
		return
	}
	ds, err := ss.Load(r.Context(), payload)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	writeJSON(w, ds.Describe(maxPreviewValues))
}

func (s *Server) datasetHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id, ss := s.session(w, r)
	ds, err := ss.Dataset()
	if err != nil {
		s.fail(w, id, err)
		return
	}
	writeJSON(w, ds.Describe(maxPreviewValues))
}

func (s *Server) previewHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id, ss := s.session(w, r)
	rc := requestContext(r)
	t, err := ss.Preview(r.Context(), rc)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	full, err := ss.Table(r.Context(), rc)
	if err != nil {
		s.fail(w, id, err)
		return
	}
	writeJSON(w, newTableJSON(t, full.Len()))
}

func (s *Server) exportHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id, ss := s.session(w, r)
	a, err := ss.Export(r.Context(), requestContext(r))
	if err != nil {
		s.fail(w, id, err)
		return
	}
	w.Header().Set("Content-Type", a.MIME)
	w.Header().Set("Content-Disposition", contentDisposition(a.FileName))
	w.Write(a.Data)
}

// contentDisposition marks a download as an attachment named name.
// Names that are not plain ASCII are encoded as in RFC 2231.
func contentDisposition(name string) string {
	if cd := mime.FormatMediaType("attachment", map[string]string{"filename": name}); cd != "" {
		return cd
	}
	return "attachment"
}

func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodGet) {
		return
	}
	id, ss := s.session(w, r)
	sum, err := ss.Summary(r.Context(), requestContext(r))
	if err != nil {
		s.fail(w, id, err)
		return
	}
	writeJSON(w, newSummaryJSON(sum))
}

func (s *Server) resetHandler(w http.ResponseWriter, r *http.Request) {
	if !allow(w, r, http.MethodPost) {
		return
	}
	_, ss := s.session(w, r)
	ss.Reset()
	w.WriteHeader(http.StatusNoContent)
}

// requestContext reads the user's selections from the query string.
// Both limits come from the "limit" parameter.
func requestContext(r *http.Request) RequestContext {
	q := r.URL.Query()
	return RequestContext{
		Variable: q.Get("variable"),
		Rows:     splitList(q.Get("rows")),
		Columns:  splitList(q.Get("columns")),
		Preview:  q.Get("limit"),
		Export:   q.Get("limit"),
	}
}

func splitList(s string) []string {
	var o []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			o = append(o, f)
		}
	}
	return o
}

func allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

type requestError struct{ err error }

func (e *requestError) Error() string { return e.err.Error() }

type uploadTooLargeError struct{ limit int64 }

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("upload is larger than the limit of %d bytes", e.limit)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

// errorJSON is the body of an error response.
type errorJSON struct {
	Error  string     `json:"error"`
	Name   string     `json:"name,omitempty"`
	Values [][]string `json:"values,omitempty"`
}

// statusOf returns the HTTP status for err.
func statusOf(err error) int {
	var tooBig *uploadTooLargeError
	var badRequest *requestError
	switch {
	case errors.As(err, &tooBig):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &badRequest), errors.Is(err, ErrInvalidPartition):
		return http.StatusBadRequest
	case errors.Is(err, ErrDecode), errors.Is(err, ErrShapeMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnknownVariable):
		return http.StatusNotFound
	case errors.Is(err, ErrColumnNameCollision), errors.Is(err, ErrDuplicateEntry),
		errors.Is(err, ErrNoDataset), errors.Is(err, ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(w http.ResponseWriter, session string, err error) {
	status := statusOf(err)
	log := s.Log.WithFields(logrus.Fields{"session": session, "status": status}).WithError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
	} else {
		log.Info("request rejected")
	}
	body := errorJSON{Error: err.Error()}
	var collision *ColumnNameCollisionError
	if errors.As(err, &collision) {
		body.Name = collision.Name
		body.Values = collision.Values
	}
	var dup *DuplicateEntryError
	if errors.As(err, &dup) {
		body.Name = dup.Column
		body.Values = [][]string{dup.Row}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// tableJSON is the encoding of a table. Null and NaN cells are null.
type tableJSON struct {
	Variable  string          `json:"variable"`
	Axes      []string        `json:"axes"`
	Columns   []columnJSON    `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	TotalRows int             `json:"total_rows"`
}

type columnJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func newTableJSON(t *Table, total int) *tableJSON {
	o := &tableJSON{
		Variable:  t.Name,
		Axes:      t.Axes,
		Columns:   make([]columnJSON, len(t.Columns)),
		Rows:      make([][]interface{}, len(t.Rows)),
		TotalRows: total,
	}
	for i, c := range t.Columns {
		o.Columns[i] = columnJSON{Name: c.Name, Type: c.Type.String()}
	}
	for i, row := range t.Rows {
		r := make([]interface{}, len(row))
		for j, v := range row {
			r[j] = jsonValue(v, t.Columns[j].Type)
		}
		o.Rows[i] = r
	}
	return o
}

func jsonValue(v Value, t ColumnType) interface{} {
	switch {
	case v.Null:
		return nil
	case t == TextColumn:
		return v.Str
	case math.IsNaN(v.Num) || math.IsInf(v.Num, 0):
		return nil
	case t == IntColumn:
		return int64(v.Num)
	}
	return v.Num
}

type summaryJSON struct {
	Variable string              `json:"variable"`
	Rows     int                 `json:"rows"`
	Columns  []columnSummaryJSON `json:"columns"`
}

type columnSummaryJSON struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Mean  *float64 `json:"mean"`
	Std   *float64 `json:"std"`
	Min   *float64 `json:"min"`
	Q25   *float64 `json:"25%"`
	Q50   *float64 `json:"50%"`
	Q75   *float64 `json:"75%"`
	Max   *float64 `json:"max"`
}

func newSummaryJSON(s *Summary) *summaryJSON {
	f := func(x float64) *float64 {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
		return &x
	}
	o := &summaryJSON{Variable: s.Name, Rows: s.Rows, Columns: make([]columnSummaryJSON, len(s.Columns))}
	for i, c := range s.Columns {
		o.Columns[i] = columnSummaryJSON{
			Name: c.Name, Count: c.Count,
			Mean: f(c.Mean), Std: f(c.Std), Min: f(c.Min),
			Q25: f(c.Q25), Q50: f(c.Q50), Q75: f(c.Q75), Max: f(c.Max),
		}
	}
	return o
}
