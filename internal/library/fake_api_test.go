package library

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"lms-resource-center/internal/models"
)

// fakeAPI is an in-memory stand-in for the resource service, recording
// every mutation request it receives.
type fakeAPI struct {
	mu        sync.Mutex
	resources []models.Resource
	requests  []string // "METHOD path" for every mutation
	server    *httptest.Server
}

func newFakeAPI(seed ...models.Resource) *fakeAPI {
	f := &fakeAPI{resources: seed}
	f.server = httptest.NewServer(http.HandlerFunc(f.handle))
	return f
}

func (f *fakeAPI) Close() { f.server.Close() }

func (f *fakeAPI) client() *Client {
	return NewClient(Config{BaseURL: f.server.URL})
}

func (f *fakeAPI) recordRequest(r *http.Request) {
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeAPI) mutationRequests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *fakeAPI) find(id string) (int, *models.Resource) {
	for i := range f.resources {
		if f.resources[i].ID == id {
			return i, &f.resources[i]
		}
	}
	return -1, nil
}

func (f *fakeAPI) childCount(id string) int {
	n := 0
	for _, r := range f.resources {
		if r.ParentID != nil && *r.ParentID == id {
			n++
		}
	}
	return n
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/resources")
	switch {
	case path == "" && r.Method == http.MethodGet:
		f.handleList(w, r)
	case path == "/bulk-pin" || path == "/bulk-delete" || path == "/bulk-download":
		f.recordRequest(r)
		f.handleBulk(w, r, strings.TrimPrefix(path, "/bulk-"))
	case strings.HasSuffix(path, "/move") && r.Method == http.MethodPatch:
		f.recordRequest(r)
		f.handleMove(w, r, strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/move"))
	case strings.HasSuffix(path, "/pin") && r.Method == http.MethodPatch:
		f.recordRequest(r)
		f.handlePin(w, r, strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/pin"))
	case strings.HasSuffix(path, "/view") && r.Method == http.MethodPatch:
		f.recordRequest(r)
		f.handleView(w, strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/view"))
	case r.Method == http.MethodDelete:
		f.recordRequest(r)
		f.handleDelete(w, strings.TrimPrefix(path, "/"))
	case r.Method == http.MethodGet:
		f.handleGet(w, strings.TrimPrefix(path, "/"))
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (f *fakeAPI) handleList(w http.ResponseWriter, r *http.Request) {
	parent := r.URL.Query().Get("parent_id")
	search := strings.ToLower(r.URL.Query().Get("search"))

	var out []models.Resource
	for _, res := range f.resources {
		switch {
		case parent == "root" && res.ParentID != nil:
			continue
		case parent != "" && parent != "root" && (res.ParentID == nil || *res.ParentID != parent):
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(res.Title), search) {
			continue
		}
		out = append(out, res)
	}
	if out == nil {
		out = []models.Resource{}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"resources": out})
}

func (f *fakeAPI) handleGet(w http.ResponseWriter, id string) {
	_, res := f.find(id)
	if res == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (f *fakeAPI) handleMove(w http.ResponseWriter, r *http.Request, id string) {
	_, res := f.find(id)
	if res == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var body struct {
		ParentID *string `json:"parent_id"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	res.ParentID = body.ParentID
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) handlePin(w http.ResponseWriter, r *http.Request, id string) {
	_, res := f.find(id)
	if res == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	var body struct {
		IsPinned bool `json:"is_pinned"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	res.IsPinned = body.IsPinned
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) handleView(w http.ResponseWriter, id string) {
	_, res := f.find(id)
	if res == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	res.IsViewed = true
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) handleDelete(w http.ResponseWriter, id string) {
	idx, res := f.find(id)
	if res == nil {
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}
	if res.IsContainer() && f.childCount(id) > 0 {
		writeError(w, http.StatusBadRequest, "folder not empty")
		return
	}
	f.resources = append(f.resources[:idx], f.resources[idx+1:]...)
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAPI) handleBulk(w http.ResponseWriter, r *http.Request, action string) {
	var body struct {
		IDs []string `json:"ids"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	switch action {
	case "pin":
		for _, id := range body.IDs {
			if _, res := f.find(id); res != nil {
				res.IsPinned = true
			}
		}
		w.WriteHeader(http.StatusOK)
	case "delete":
		kept := f.resources[:0]
		drop := make(map[string]bool, len(body.IDs))
		for _, id := range body.IDs {
			drop[id] = true
		}
		for _, res := range f.resources {
			if !drop[res.ID] {
				kept = append(kept, res)
			}
		}
		f.resources = kept
		w.WriteHeader(http.StatusOK)
	case "download":
		w.Header().Set("Content-Type", "application/zip")
		w.Write([]byte("zip-payload"))
	}
}
