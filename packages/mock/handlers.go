package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	supportURL  = "https://contentcaddy.io?utm_source=reqres&utm_medium=json&utm_campaign=referral"
	supportText = "Tired of writing endless social media content? Let Content Caddy generate it for you."
)

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := sjson.SetBytes([]byte(`{}`), "error", msg)
	writeJSON(w, status, body)
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := positiveInt(q.Get("page"), 1)
	perPage := positiveInt(q.Get("per_page"), DefaultPerPage)

	total := len(s.users)
	totalPages := (total + perPage - 1) / perPage

	data := []User{}
	if from := (page - 1) * perPage; from < total {
		to := min(from+perPage, total)
		data = s.users[from:to]
	}

	body := []byte(`{}`)
	for _, kv := range []struct {
		path  string
		value any
	}{
		{"page", page},
		{"per_page", perPage},
		{"total", total},
		{"total_pages", totalPages},
		{"data", data},
		{"support.url", supportURL},
		{"support.text", supportText},
	} {
		var err error
		if body, err = sjson.SetBytes(body, kv.path, kv.value); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) lookup(r *http.Request) (User, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return User{}, false
	}
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.lookup(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, []byte(`{}`))
		return
	}

	body, err := sjson.SetBytes([]byte(`{}`), "data", user)
	if err == nil {
		body, err = sjson.SetBytes(body, "support", map[string]string{"url": supportURL, "text": supportText})
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// createUser echoes the posted object with an id and creation time, as the
// real API does. Nothing is stored.
func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(w, r)
	if !ok {
		return
	}
	id := int64(len(s.users)) + s.created.Add(1)
	body, _ = sjson.SetBytes(body, "id", strconv.FormatInt(id, 10))
	body, _ = sjson.SetBytes(body, "createdAt", s.now().UTC().Format(time.RFC3339Nano))
	writeJSON(w, http.StatusCreated, body)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(w, r)
	if !ok {
		return
	}
	body, _ = sjson.SetBytes(body, "updatedAt", s.now().UTC().Format(time.RFC3339Nano))
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) deleteUser(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// register accepts only users from the dataset, mirroring the public API.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(w, r)
	if !ok {
		return
	}

	email := strings.TrimSpace(gjson.GetBytes(body, "email").String())
	if email == "" {
		email = strings.TrimSpace(gjson.GetBytes(body, "username").String())
	}
	password := gjson.GetBytes(body, "password").String()

	switch {
	case email == "":
		writeError(w, http.StatusBadRequest, "Missing email or username")
		return
	case password == "":
		writeError(w, http.StatusBadRequest, "Missing password")
		return
	}

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			resp, _ := sjson.SetBytes([]byte(`{}`), "id", u.ID)
			resp, _ = sjson.SetBytes(resp, "token", Token(u.Email))
			writeJSON(w, http.StatusOK, resp)
			return
		}
	}
	writeError(w, http.StatusBadRequest, "Note: Only defined users succeed registration")
}

// readObject reads a JSON object body. An empty body is treated as {}.
func readObject(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return []byte(`{}`), true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		writeError(w, http.StatusBadRequest, "body must be a JSON object")
		return nil, false
	}
	return data, true
}
