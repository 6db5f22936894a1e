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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/tealeg/xlsx"
)

// attachmentName returns the file name of an attachment's
// Content-Disposition header.
func attachmentName(t *testing.T, cd string) string {
	t.Helper()
	disp, params, err := mime.ParseMediaType(cd)
	if err != nil {
		t.Fatalf("%q: %v", cd, err)
	}
	if disp != "attachment" {
		t.Errorf("%q: want an attachment", cd)
	}
	return params["filename"]
}

func TestContentDisposition(t *testing.T) {
	for _, name := range []string{"temperature_ALL.xlsx", "température_Top100.xlsx", "温度 \"a\"_ALL.xlsx"} {
		if got := attachmentName(t, contentDisposition(name)); got != name {
			t.Errorf("want %q, got %q", name, got)
		}
	}
}

func newTestClient(t *testing.T, maxUpload int64) (*httptest.Server, *http.Client) {
	srv := httptest.NewServer(NewServer(4, 8, maxUpload))
	t.Cleanup(srv.Close)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return srv, &http.Client{Jar: jar}
}

func upload(t *testing.T, c *http.Client, u string, payload []byte) *http.Response {
	b := new(bytes.Buffer)
	w := multipart.NewWriter(b)
	fw, err := w.CreateFormFile("file", "sample.nc")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write(payload)
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	resp, err := c.Post(u+"/upload", w.FormDataContentType(), b)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func get(t *testing.T, c *http.Client, u string, q url.Values) *http.Response {
	resp, err := c.Get(u + "?" + q.Encode())
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatal(err)
	}
}

func TestServer(t *testing.T) {
	srv, c := newTestClient(t, 0)

	resp := get(t, c, srv.URL+"/dataset", nil)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("dataset before upload: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = upload(t, c, srv.URL, samplePayload(t))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: status %d", resp.StatusCode)
	}
	var d Description
	decodeJSON(t, resp, &d)
	if len(d.Variables) != 4 || d.Variables[0].Name != "temperature" {
		t.Errorf("description: %+v", d.Variables)
	}

	resp = get(t, c, srv.URL+"/preview", url.Values{
		"variable": {"temperature"},
		"columns":  {"station"},
		"limit":    {"2"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("preview: status %d", resp.StatusCode)
	}
	var p struct {
		Columns []struct{ Name string }
		Rows    [][]interface{}
		Total   int `json:"total_rows"`
	}
	decodeJSON(t, resp, &p)
	if len(p.Columns) != 3 || p.Columns[1].Name != "A" || p.Columns[2].Name != "B" {
		t.Errorf("preview columns: %+v", p.Columns)
	}
	if len(p.Rows) != 2 || p.Total != 3 {
		t.Fatalf("preview: %d rows of %d", len(p.Rows), p.Total)
	}
	if p.Rows[1][0] != "2000-01-02 00:00:00" || p.Rows[1][1] != nil {
		t.Errorf("second row: %v", p.Rows[1])
	}

	resp = get(t, c, srv.URL+"/export", url.Values{"variable": {"temperature"}, "limit": {"all"}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export: status %d", resp.StatusCode)
	}
	if cd := resp.Header.Get("Content-Disposition"); attachmentName(t, cd) != "temperature_ALL.xlsx" {
		t.Errorf("content disposition: %s", cd)
	}
	if ct := resp.Header.Get("Content-Type"); ct != SpreadsheetMIME {
		t.Errorf("content type: %s", ct)
	}
	b, err := ioutil.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	f, err := xlsx.OpenBinary(b)
	if err != nil {
		t.Fatal(err)
	}
	if n := len(f.Sheets[0].Rows); n != 7 {
		t.Errorf("exported %d rows", n)
	}

	resp = get(t, c, srv.URL+"/summary", url.Values{"variable": {"pressure"}})
	var sum struct {
		Rows    int
		Columns []struct {
			Name  string
			Count int
			Max   *float64
		}
	}
	decodeJSON(t, resp, &sum)
	if sum.Rows != 6 || len(sum.Columns) != 1 || sum.Columns[0].Max == nil || *sum.Columns[0].Max != 975 {
		t.Errorf("summary: %+v", sum)
	}
}

func TestServer_errors(t *testing.T) {
	srv, c := newTestClient(t, 0)
	resp := upload(t, c, srv.URL, []byte("garbage"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("garbage upload: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	upload(t, c, srv.URL, samplePayload(t)).Body.Close()
	for _, test := range []struct {
		q    url.Values
		want int
	}{
		{url.Values{"variable": {"salinity"}}, http.StatusNotFound},
		{url.Values{"variable": {"temperature"}, "columns": {"depth"}}, http.StatusBadRequest},
		{url.Values{"variable": {"temperature"}, "rows": {"time"}, "columns": {"time"}}, http.StatusBadRequest},
	} {
		resp := get(t, c, srv.URL+"/preview", test.q)
		var e errorJSON
		decodeJSON(t, resp, &e)
		if resp.StatusCode != test.want || e.Error == "" {
			t.Errorf("%v: want status %d, got %d %+v", test.q, test.want, resp.StatusCode, e)
		}
	}

	resp, err := c.Post(srv.URL+"/reset", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("reset: status %d", resp.StatusCode)
	}
	resp = get(t, c, srv.URL+"/preview", url.Values{"variable": {"temperature"}})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("preview after reset: status %d", resp.StatusCode)
	}

	resp = get(t, c, srv.URL+"/upload", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET upload: status %d", resp.StatusCode)
	}
}

func TestServer_tooLarge(t *testing.T) {
	srv, c := newTestClient(t, 16)
	resp := upload(t, c, srv.URL, samplePayload(t))
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status %d", resp.StatusCode)
	}
}

func TestServer_sessions(t *testing.T) {
	srv, c := newTestClient(t, 0)
	upload(t, c, srv.URL, samplePayload(t)).Body.Close()

	other := &http.Client{}
	resp := get(t, other, srv.URL+"/dataset", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("a new client should not see another session's dataset: status %d", resp.StatusCode)
	}
	resp = get(t, c, srv.URL+"/dataset", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status %d", resp.StatusCode)
	}
}

func TestStatusOf(t *testing.T) {
	for _, test := range []struct {
		err  error
		want int
	}{
		{&DecodeError{Err: ErrDecode}, http.StatusUnprocessableEntity},
		{&ShapeMismatchError{}, http.StatusUnprocessableEntity},
		{&ColumnNameCollisionError{}, http.StatusConflict},
		{&DuplicateEntryError{}, http.StatusConflict},
		{ErrSuperseded, http.StatusConflict},
		{ErrNotFlat, http.StatusInternalServerError},
	} {
		if got := statusOf(test.err); got != test.want {
			t.Errorf("%v: want %d, got %d", test.err, test.want, got)
		}
	}
}
