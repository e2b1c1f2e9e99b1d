package testserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/sdotee/desktop/internal/domain"
)

const maxUploadMemory = 8 << 20

func writeJSON[T any](w http.ResponseWriter, status int, data T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.Envelope[T]{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.Envelope[any]{
		Code:    status,
		Message: message,
	})
}

func (s *Server) domains(list []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.DomainList{Domains: list})
	}
}

// nextSlug expects s.mu to be held
func (s *Server) nextSlug() string {
	s.counter++
	return "t" + strconv.FormatInt(int64(s.counter), 36)
}

func (s *Server) shorten(w http.ResponseWriter, r *http.Request) {
	var req domain.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.TargetURL == "" {
		writeError(w, http.StatusBadRequest, "target_url is required")
		return
	}
	if req.Domain == "" {
		req.Domain = LinkDomains[0]
	}
	if !slices.Contains(LinkDomains, req.Domain) {
		writeError(w, http.StatusBadRequest, "unknown domain")
		return
	}

	s.mu.Lock()
	slug := req.CustomSlug
	if slug == "" {
		slug = s.nextSlug()
	}
	if _, taken := s.links[key(req.Domain, slug)]; taken {
		s.mu.Unlock()
		writeError(w, http.StatusConflict, "slug already exists")
		return
	}
	s.links[key(req.Domain, slug)] = req
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.ShortenResponse{
		ShortURL:   fmt.Sprintf("https://%s/%s", req.Domain, slug),
		Slug:       slug,
		CustomSlug: req.CustomSlug,
	})
}

func (s *Server) deleteLink(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	_, ok := s.links[key(req.Domain, req.Slug)]
	delete(s.links, key(req.Domain, req.Slug))
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "short url not found")
		return
	}
	writeJSON[any](w, http.StatusOK, nil)
}

func (s *Server) createText(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Content == "" || req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "content and title are required")
		return
	}
	if req.Domain == "" {
		req.Domain = TextDomains[0]
	}

	s.mu.Lock()
	slug := req.CustomSlug
	if slug == "" {
		slug = s.nextSlug()
	}
	s.texts[key(req.Domain, slug)] = req
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, domain.CreateTextResponse{
		ShortURL:   fmt.Sprintf("https://%s/%s", req.Domain, slug),
		Slug:       slug,
		CustomSlug: req.CustomSlug,
	})
}

func (s *Server) deleteText(w http.ResponseWriter, r *http.Request) {
	var req domain.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	_, ok := s.texts[key(req.Domain, req.Slug)]
	delete(s.texts, key(req.Domain, req.Slug))
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "text not found")
		return
	}
	writeJSON[any](w, http.StatusOK, nil)
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:8])
	host := FileDomains[0]
	storeName := hash + filepath.Ext(header.Filename)

	resp := domain.FileUploadResponse{
		Filename:  header.Filename,
		StoreName: storeName,
		Size:      int64(len(content)),
		URL:       fmt.Sprintf("https://%s/%s", host, storeName),
		Page:      fmt.Sprintf("https://%s/p/%s", host, hash),
		Path:      "/" + storeName,
		Hash:      hash,
		Delete:    fmt.Sprintf("https://%s/delete/%s", host, hash),
	}

	s.mu.Lock()
	s.counter++
	resp.FileID = int64(s.counter)
	s.files[hash] = upload{response: resp, content: content}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	hash := r.PathValue("key")

	s.mu.Lock()
	_, ok := s.files[hash]
	delete(s.files, hash)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	writeJSON[any](w, http.StatusOK, nil)
}
