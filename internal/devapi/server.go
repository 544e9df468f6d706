package devapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

const (
	APIPrefix   = "/api"
	MediaPrefix = "/media/"

	maxTagName  = 64
	maxCardText = 255
	maxUpload   = 32 << 20
)

type Server struct {
	store  Store
	logger *logger.Logger
	router *mux.Router
	now    func() time.Time
}

func NewServer(store Store, logger *logger.Logger) *Server {
	s := &Server{store: store, logger: logger, now: time.Now}
	s.router = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})

	api := r.PathPrefix(APIPrefix).Subrouter()
	api.HandleFunc("/tags/", s.listTags).Methods("GET")
	api.HandleFunc("/tags/", s.createTag).Methods("POST")
	api.HandleFunc("/tags/{id:[0-9]+}/", s.getTag).Methods("GET")
	api.HandleFunc("/tags/{id:[0-9]+}/", s.deleteTag).Methods("DELETE")
	api.HandleFunc("/cards/", s.listCards).Methods("GET")
	api.HandleFunc("/cards/", s.createCard).Methods("POST")
	api.HandleFunc("/cards/{id:[0-9]+}/", s.getCard).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}/", s.deleteCard).Methods("DELETE")
	api.HandleFunc("/cards/{id:[0-9]+}/related/", s.listRelations).Methods("GET")
	api.HandleFunc("/cards/{id:[0-9]+}/related/", s.createRelation).Methods("POST")
	api.HandleFunc("/cards/{id:[0-9]+}/related/{rid:[0-9]+}/", s.deleteRelation).Methods("DELETE")

	r.HandleFunc(MediaPrefix+"{key:.+}", s.getMedia).Methods("GET")
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.logger.Debug("%s %s -> %d (%s) [%s]", r.Method, r.URL.RequestURI(), rec.status,
			time.Since(start).Round(time.Microsecond), r.Header.Get("X-Request-ID"))
	})
}

type cardResponse struct {
	ID            uint64    `json:"id"`
	FrontText     string    `json:"front_text"`
	BackText      string    `json:"back_text"`
	FrontImageURL *string   `json:"front_image_url"`
	BackImageURL  *string   `json:"back_image_url"`
	Tags          []*Tag    `json:"tags"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *Server) listTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.store.ListTags()
	if err != nil {
		s.writeError(w, err)
		return
	}
	if tags == nil {
		tags = []*Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": fmt.Sprintf("JSON parse error - %v", err)})
		return
	}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		writeFieldError(w, "name", "This field may not be blank.")
		return
	case utf8.RuneCountInString(name) > maxTagName:
		writeFieldError(w, "name", fmt.Sprintf("Ensure this field has no more than %d characters.", maxTagName))
		return
	}

	tag, err := s.store.CreateTag(name)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request) {
	tag, err := s.store.GetTag(pathID(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTag(pathID(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.store.ListCards(r.URL.Query().Get("tag"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	tags, err := s.tagIndex()
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]cardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, s.cardResponse(r, c, tags))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCard(pathID(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	tags, err := s.tagIndex()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.cardResponse(r, c, tags))
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": fmt.Sprintf("Multipart form parse error - %v", err)})
		return
	}
	defer r.MultipartForm.RemoveAll()

	card := &Card{
		FrontText: r.FormValue("front_text"),
		BackText:  r.FormValue("back_text"),
		TagIDs:    ParseTagIDs(lastValue(r.MultipartForm.Value["tag_ids"])),
		CreatedAt: s.now().UTC(),
	}
	if errs := cardTextErrors(card); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, errs)
		return
	}

	var err error
	if card.FrontImage, err = s.saveUpload(r.MultipartForm, "front_image", "front"); err != nil {
		s.writeError(w, err)
		return
	}
	if card.BackImage, err = s.saveUpload(r.MultipartForm, "back_image", "back"); err != nil {
		s.discardMedia(card.FrontImage)
		s.writeError(w, err)
		return
	}

	if err := s.store.AddCard(card); err != nil {
		s.discardMedia(card.FrontImage, card.BackImage)
		s.writeError(w, err)
		return
	}
	s.logger.Debug("stored card %d with tags %v", card.ID, card.TagIDs)

	tags, err := s.tagIndex()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.cardResponse(r, card, tags))
}

func cardTextErrors(card *Card) map[string][]string {
	errs := map[string][]string{}
	tooLong := fmt.Sprintf("Ensure this field has no more than %d characters.", maxCardText)
	if utf8.RuneCountInString(card.FrontText) > maxCardText {
		errs["front_text"] = []string{tooLong}
	}
	if utf8.RuneCountInString(card.BackText) > maxCardText {
		errs["back_text"] = []string{tooLong}
	}
	return errs
}

// discardMedia removes uploads of a card that was never stored.
func (s *Server) discardMedia(keys ...string) {
	if err := s.store.DeleteMedia(keys...); err != nil {
		s.logger.Warn("failed to remove orphaned uploads %v: %v", keys, err)
	}
}

// saveUpload stores the first file under field and returns its media key,
// or "" when the field was not sent.
func (s *Server) saveUpload(form *multipart.Form, field, side string) (string, error) {
	files := form.File[field]
	if len(files) == 0 {
		return "", nil
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading upload %s: %w", field, err)
	}

	ext := strings.ToLower(path.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if t := mime.TypeByExtension(ext); t != "" {
			contentType = t
		}
	}
	key := path.Join("cards", side, uuid.NewString()+ext)
	if err := s.store.PutMedia(key, &Media{ContentType: contentType, Data: data}); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Server) deleteCard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteCard(pathID(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRelations(w http.ResponseWriter, r *http.Request) {
	rels, err := s.store.ListRelations(pathID(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rels == nil {
		rels = []*Relation{}
	}
	writeJSON(w, http.StatusOK, rels)
}

func (s *Server) createRelation(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ToCard models.ID `json:"to_card"`
		Note   string    `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": fmt.Sprintf("JSON parse error - %v", err)})
		return
	}
	if in.ToCard == "" {
		writeFieldError(w, "to_card", "This field is required.")
		return
	}
	to, err := strconv.ParseUint(in.ToCard.String(), 10, 64)
	if err != nil {
		writeFieldError(w, "to_card", "Incorrect type. Expected pk value.")
		return
	}

	rel := &Relation{FromCard: pathID(r, "id"), ToCard: to, Note: in.Note}
	if err := s.store.AddRelation(rel); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

func (s *Server) deleteRelation(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRelation(pathID(r, "id"), pathID(r, "rid")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getMedia(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMedia(mux.Vars(r)["key"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	if m.ContentType != "" {
		w.Header().Set("Content-Type", m.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(m.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(m.Data)
}

func (s *Server) tagIndex() (map[uint64]*Tag, error) {
	tags, err := s.store.ListTags()
	if err != nil {
		return nil, err
	}
	idx := make(map[uint64]*Tag, len(tags))
	for _, t := range tags {
		idx[t.ID] = t
	}
	return idx, nil
}

func (s *Server) cardResponse(r *http.Request, c *Card, tags map[uint64]*Tag) cardResponse {
	out := cardResponse{
		ID:            c.ID,
		FrontText:     c.FrontText,
		BackText:      c.BackText,
		FrontImageURL: mediaURL(r, c.FrontImage),
		BackImageURL:  mediaURL(r, c.BackImage),
		Tags:          []*Tag{},
		CreatedAt:     c.CreatedAt,
	}
	for _, id := range c.TagIDs {
		if t, ok := tags[id]; ok {
			out.Tags = append(out.Tags, t)
		}
	}
	return out
}

// mediaURL builds an absolute URL for key from the request's host.
func mediaURL(r *http.Request, key string) *string {
	if key == "" {
		return nil
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := scheme + "://" + r.Host + MediaPrefix + key
	return &u
}

// ParseTagIDs reads a comma-joined id list, skipping anything that is not
// a plain number.
func ParseTagIDs(raw string) []uint64 {
	ids := []uint64{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// lastValue mirrors how form parsers hand back a single value for a
// repeated field.
func lastValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

func pathID(r *http.Request, name string) uint64 {
	id, _ := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	return id
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTagNotFound), errors.Is(err, ErrRelationNotFound), errors.Is(err, ErrMediaNotFound):
		writeNotFound(w)
	case errors.Is(err, ErrCardNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Card not found."})
	case errors.Is(err, ErrTagExists):
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"The fields owner, name must make a unique set."},
		})
	case errors.Is(err, ErrRelationExists):
		writeJSON(w, http.StatusBadRequest, map[string][]string{
			"non_field_errors": {"The fields from_card, to_card must make a unique set."},
		})
	default:
		s.logger.Error("internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "A server error occurred."})
	}
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string][]string{field: {msg}})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
