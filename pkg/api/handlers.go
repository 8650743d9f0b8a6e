package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/ssargent/bsonview/pkg/bson"
	"github.com/ssargent/bsonview/pkg/inspect"
	"github.com/ssargent/bsonview/pkg/spool"
)

// Server holds the API server state
type Server struct {
	spool   DocumentSpool
	reader  *bson.Reader
	config  ServerConfig
	metrics *Metrics
	log     logrus.FieldLogger
}

// NewServer creates a new API server. A nil reader means bson.NewReader().
func NewServer(docs DocumentSpool, reader *bson.Reader, config ServerConfig, metrics *Metrics, log logrus.FieldLogger) *Server {
	if reader == nil {
		reader = bson.NewReader()
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Server{
		spool:   docs,
		reader:  reader,
		config:  config,
		metrics: metrics,
		log:     log,
	}
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func parseID(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bool) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid document id", http.StatusBadRequest)
		return ksuid.Nil, false
	}
	return id, true
}

// readerFor returns the configured reader, switched to strict validation when
// the request asks for it
func (s *Server) readerFor(r *http.Request) (*bson.Reader, error) {
	raw := r.URL.Query().Get("strict")
	if raw == "" {
		return s.reader, nil
	}
	strict, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid strict parameter %q", raw)
	}
	reader := *s.reader
	reader.Strict = strict
	return &reader, nil
}

func (s *Server) refreshSpoolGauge() {
	n, err := s.spool.Count()
	if err != nil {
		s.log.WithError(err).Warn("failed to count spooled documents")
		return
	}
	s.metrics.SetSpoolDocuments(n)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleValidate always answers 200; the report says whether the body held a
// well-formed document.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	reader, err := s.readerFor(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	report := inspect.Check(reader, body)
	s.metrics.RecordValidation(report.Valid, report.Strict)
	if report.Valid {
		s.metrics.RecordDocumentSize(report.Size)
	} else {
		s.log.WithFields(logrus.Fields{
			"bytes":  len(body),
			"strict": report.Strict,
			"reason": report.Error,
		}).Debug("document failed validation")
	}
	sendSuccess(w, report)
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	reader, err := s.readerFor(r)
	if err != nil {
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	doc, err := reader.Open(body)
	if err != nil {
		s.metrics.RecordValidation(false, reader.Strict)
		sendError(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.metrics.RecordValidation(true, reader.Strict)

	fields, err := inspect.Describe(doc)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, DocumentResponse{Size: doc.Size(), Fields: fields})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	start := time.Now()
	id, err := s.spool.Put(body)
	s.metrics.RecordSpoolOperation("put", err == nil, time.Since(start))
	if err != nil {
		if errors.Is(err, spool.ErrInvalidDocument) {
			s.metrics.RecordValidation(false, s.reader.Strict)
			sendError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.log.WithError(err).Error("failed to spool document")
		sendError(w, "Failed to store document", http.StatusInternalServerError)
		return
	}
	s.metrics.RecordValidation(true, s.reader.Strict)

	size, _ := bson.DocumentSize(body)
	s.metrics.RecordDocumentSize(size)
	s.refreshSpoolGauge()

	sendSuccessStatus(w, DocumentResponse{ID: id.String(), Size: size}, http.StatusCreated)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			sendError(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	start := time.Now()
	entries, err := s.spool.List(limit)
	s.metrics.RecordSpoolOperation("list", err == nil, time.Since(start))
	if err != nil {
		s.log.WithError(err).Error("failed to list documents")
		sendError(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []spool.Entry{}
	}
	sendSuccess(w, entries)
}

// getDocument loads the document named by the {id} route parameter, writing the
// error response itself when that fails
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) (ksuid.KSUID, bson.Document, bool) {
	id, ok := parseID(w, r)
	if !ok {
		return ksuid.Nil, bson.Document{}, false
	}

	start := time.Now()
	doc, err := s.spool.Get(id)
	s.metrics.RecordSpoolOperation("get", err == nil || errors.Is(err, spool.ErrNotFound), time.Since(start))
	if err != nil {
		if errors.Is(err, spool.ErrNotFound) {
			sendError(w, "Document not found", http.StatusNotFound)
			return ksuid.Nil, bson.Document{}, false
		}
		s.log.WithError(err).WithField("id", id.String()).Error("failed to read document")
		sendError(w, "Failed to read document", http.StatusInternalServerError)
		return ksuid.Nil, bson.Document{}, false
	}
	return id, doc, true
}

// handleGetDocument returns the rendered document, or the stored bytes when
// raw=true is given
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, doc, ok := s.getDocument(w, r)
	if !ok {
		return
	}

	if raw, _ := strconv.ParseBool(r.URL.Query().Get("raw")); raw {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes())))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc.Bytes())
		return
	}

	fields, err := inspect.Describe(doc)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, DocumentResponse{ID: id.String(), Size: doc.Size(), Fields: fields})
}

// handleLookup resolves a dotted path such as "a.b.c" against a stored document
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		sendError(w, "path is required", http.StatusBadRequest)
		return
	}

	_, doc, ok := s.getDocument(w, r)
	if !ok {
		return
	}

	elem, err := doc.LookupPath(strings.Split(path, ".")...)
	if err != nil {
		switch {
		case errors.Is(err, bson.ErrNotFound):
			sendError(w, fmt.Sprintf("Key %q not found", path), http.StatusNotFound)
		default:
			sendError(w, err.Error(), http.StatusUnprocessableEntity)
		}
		return
	}

	field, err := inspect.DescribeElement(elem)
	if err != nil {
		sendError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	sendSuccess(w, field)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	start := time.Now()
	err := s.spool.Delete(id)
	s.metrics.RecordSpoolOperation("delete", err == nil || errors.Is(err, spool.ErrNotFound), time.Since(start))
	if err != nil {
		if errors.Is(err, spool.ErrNotFound) {
			sendError(w, "Document not found", http.StatusNotFound)
			return
		}
		s.log.WithError(err).WithField("id", id.String()).Error("failed to delete document")
		sendError(w, "Failed to delete document", http.StatusInternalServerError)
		return
	}
	s.refreshSpoolGauge()

	sendSuccess(w, map[string]string{"status": "deleted"})
}
