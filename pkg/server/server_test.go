package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/arbor/pkg/cache"
	"github.com/matzehuels/arbor/pkg/config"
	"github.com/matzehuels/arbor/pkg/errors"
	"github.com/matzehuels/arbor/pkg/layout"
	"github.com/matzehuels/arbor/pkg/pipeline"
	"github.com/matzehuels/arbor/pkg/store"
	"github.com/matzehuels/arbor/pkg/tree"
)

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	s := New(st, pipeline.NewRunner(c, nil, logger), config.Default(), logger)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

func (ts *testServer) do(method, path, contentType string, body string) *http.Response {
	ts.t.Helper()
	req, err := http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body))
	require.NoError(ts.t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(ts.t, err)
	ts.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (ts *testServer) json(method, path, body string, want int, out any) {
	ts.t.Helper()
	resp := ts.do(method, path, "application/json", body)
	data, _ := io.ReadAll(resp.Body)
	require.Equal(ts.t, want, resp.StatusCode, "%s %s: %s", method, path, data)
	if out != nil {
		require.NoError(ts.t, json.Unmarshal(data, out))
	}
}

func (ts *testServer) create(body string) store.Document {
	ts.t.Helper()
	var doc store.Document
	ts.json(http.MethodPost, "/documents", body, http.StatusCreated, &doc)
	return doc
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	ts.json(http.MethodGet, "/healthz", "", http.StatusOK, nil)
}

func TestCreateAndGet(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "family"}`)

	assert.Equal(t, "family", doc.Name)
	require.NotNil(t, doc.Tree)
	assert.Equal(t, tree.DefaultText, doc.Tree.Text)
	// Stored trees carry layout positions.
	assert.Equal(t, 100.0, doc.Tree.X)
	assert.Equal(t, 100.0, doc.Tree.Y)

	var got store.Document
	ts.json(http.MethodGet, "/documents/"+doc.ID, "", http.StatusOK, &got)
	assert.Equal(t, doc.ID, got.ID)

	var list []store.Summary
	ts.json(http.MethodGet, "/documents", "", http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, doc.ID, list[0].ID)
}

func TestCreateWithTree(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "t", "tree": {"id": 42, "text": "root", "children": [{"text": "a"}, {}]}}`)

	assert.Equal(t, 0, doc.Tree.ID, "ids are regenerated")
	require.Len(t, doc.Tree.Children, 2)
	assert.Equal(t, "a", doc.Tree.Children[0].Text)
	assert.Equal(t, tree.DefaultText, doc.Tree.Children[1].Text)
}

func TestCreateInvalid(t *testing.T) {
	ts := newTestServer(t)

	var body errorBody
	ts.json(http.MethodPost, "/documents", `{"name": ""}`, http.StatusBadRequest, &body)
	assert.Equal(t, errors.ErrCodeInvalidInput, body.Error.Code)

	ts.json(http.MethodPost, "/documents", `{"name": "x", "tree": {"children": "nope"}}`, http.StatusBadRequest, &body)
	assert.Equal(t, errors.ErrCodeValidation, body.Error.Code)

	ts.json(http.MethodPost, "/documents", `not json`, http.StatusBadRequest, nil)
}

func TestNodeMutations(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "n"}`)
	base := "/documents/" + doc.ID

	var child nodeResponse
	ts.json(http.MethodPost, base+"/nodes/0/children", "", http.StatusCreated, &child)
	assert.Equal(t, 1, child.ID)

	var node tree.Node
	ts.json(http.MethodPatch, base+"/nodes/1", `{"text": "left", "highlight": {"type": "global", "index": 2}}`, http.StatusOK, &node)
	assert.Equal(t, "left", node.Text)
	require.NotNil(t, node.Highlight)
	assert.Equal(t, 2, node.Highlight.Index)

	ts.json(http.MethodPatch, base+"/nodes/1", `{"highlight": null}`, http.StatusOK, &node)
	assert.Nil(t, node.Highlight)
	assert.Equal(t, "left", node.Text)

	var got store.Document
	ts.json(http.MethodGet, base, "", http.StatusOK, &got)
	require.Len(t, got.Tree.Children, 1)
	assert.Equal(t, "left", got.Tree.Children[0].Text)
	assert.Equal(t, 250.0, got.Tree.Children[0].Y)

	ts.json(http.MethodDelete, base+"/nodes/1", "", http.StatusNoContent, nil)
	ts.json(http.MethodGet, base, "", http.StatusOK, &got)
	assert.Empty(t, got.Tree.Children)
}

func TestNodeErrors(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "n"}`)
	base := "/documents/" + doc.ID

	var body errorBody
	ts.json(http.MethodDelete, base+"/nodes/0", "", http.StatusConflict, &body)
	assert.Equal(t, errors.ErrCodeProtectedNode, body.Error.Code)

	ts.json(http.MethodPost, base+"/nodes/7/children", "", http.StatusNotFound, &body)
	assert.Equal(t, errors.ErrCodeNotFound, body.Error.Code)

	ts.json(http.MethodPatch, base+"/nodes/abc", `{}`, http.StatusBadRequest, nil)

	ts.json(http.MethodPatch, base+"/nodes/0", `{"highlight": {"type": "custom"}}`, http.StatusBadRequest, &body)
	assert.Equal(t, errors.ErrCodeValidation, body.Error.Code)

	ts.json(http.MethodGet, "/documents/8a3c8f0e-1d4b-4f1e-9a55-6b8f7e0c1d2a", "", http.StatusNotFound, &body)
	assert.Equal(t, errors.ErrCodeDocumentNotFound, body.Error.Code)
}

func TestImportExport(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "io"}`)
	base := "/documents/" + doc.ID

	resp := ts.do(http.MethodPut, base+"/tree", "application/yaml", "text: top\nchildren:\n  - text: a\n  - text: b\n")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(http.MethodGet, base+"/tree?format=yaml", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	data, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(data), "text: top")

	// A failed import leaves the document unchanged.
	resp = ts.do(http.MethodPut, base+"/tree", "application/json", `[1, 2]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got store.Document
	ts.json(http.MethodGet, base, "", http.StatusOK, &got)
	assert.Equal(t, "top", got.Tree.Text)
	assert.Len(t, got.Tree.Children, 2)

	resp = ts.do(http.MethodGet, base+"/tree?format=xml", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "l", "tree": {"children": [{}, {}, {}]}}`)

	var res layout.Result
	ts.json(http.MethodGet, "/documents/"+doc.ID+"/layout", "", http.StatusOK, &res)
	assert.Equal(t, 500.0, res.Width)
	assert.Equal(t, 350.0, res.Height)
	assert.Len(t, res.Nodes, 4)
	assert.Len(t, res.Edges, 3)
	assert.Equal(t, [][]int{{0}, {1, 2, 3}}, res.Rows)
}

func TestRender(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "r", "tree": {"children": [{}]}}`)
	base := "/documents/" + doc.ID

	resp := ts.do(http.MethodGet, base+"/render.svg", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, "MISS", resp.Header.Get("X-Cache"))
	first, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.Contains(first, []byte("<svg")))

	resp = ts.do(http.MethodGet, base+"/render.svg", "", "")
	assert.Equal(t, "HIT", resp.Header.Get("X-Cache"))
	second, _ := io.ReadAll(resp.Body)
	assert.Equal(t, first, second)

	resp = ts.do(http.MethodGet, base+"/render.png?scale=2", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	resp = ts.do(http.MethodGet, base+"/render.gif", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = ts.do(http.MethodGet, base+"/render.png?scale=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDocument(t *testing.T) {
	ts := newTestServer(t)
	doc := ts.create(`{"name": "gone"}`)

	ts.json(http.MethodDelete, "/documents/"+doc.ID, "", http.StatusNoContent, nil)
	ts.json(http.MethodGet, "/documents/"+doc.ID, "", http.StatusNotFound, nil)
	ts.json(http.MethodDelete, "/documents/"+doc.ID, "", http.StatusNotFound, nil)
}

func TestStatusFor(t *testing.T) {
	tests := map[errors.Code]int{
		errors.ErrCodeValidation:       http.StatusBadRequest,
		errors.ErrCodeInvalidFormat:    http.StatusBadRequest,
		errors.ErrCodeNotFound:         http.StatusNotFound,
		errors.ErrCodeDocumentNotFound: http.StatusNotFound,
		errors.ErrCodeProtectedNode:    http.StatusConflict,
		errors.ErrCodeStore:            http.StatusInternalServerError,
		"":                             http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, statusFor(code), code)
	}
}
