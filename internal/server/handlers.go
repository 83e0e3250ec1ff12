package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/jonathan/resume-refiner/internal/extraction"
	"github.com/jonathan/resume-refiner/internal/rendering"
	"github.com/jonathan/resume-refiner/internal/review"
	"github.com/jonathan/resume-refiner/internal/server/middleware"
	"github.com/jonathan/resume-refiner/internal/types"
)

// CreateSessionResponse is returned after a successful upload and extraction.
type CreateSessionResponse struct {
	SessionID string                 `json:"session_id"`
	Token     string                 `json:"token"`
	ExpiresAt time.Time              `json:"expires_at"`
	Format    types.Format           `json:"format"`
	Record    *types.ResumeRecord    `json:"record"`
	ChangeLog []types.ChangeLogEntry `json:"change_log"`
}

// FormatRequest selects the output style.
type FormatRequest struct {
	Format string `json:"format" validate:"required"`
}

// AcceptRequest optionally names the suggestion to apply.
type AcceptRequest struct {
	Suggestion string `json:"suggestion" validate:"max=1000"`
}

// OutcomeResponse reports an accept or undo.
type OutcomeResponse struct {
	Applied bool                  `json:"applied"`
	Reason  string                `json:"reason,omitempty"`
	Entry   *types.ChangeLogEntry `json:"entry,omitempty"`
	Record  *types.ResumeRecord   `json:"record"`
}

// LocatedIssue is an open issue positioned in one field's text.
type LocatedIssue struct {
	types.GrammarIssue
	Start int `json:"start"`
	End   int `json:"end"`
}

// handleCreateSession accepts a multipart upload (file, format), extracts it and opens a session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "expected a multipart upload no larger than " + humanBytes(s.maxUploadBytes)})
		return
	}
	format, err := types.ParseFormat(r.FormValue("format"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "file is required"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "file", Message: "could not read upload"})
		return
	}
	doc, err := extraction.DetectInput(header.Filename, data)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.modelTimeout)
	defer cancel()
	record, err := s.deps.Extractor.Extract(ctx, doc, format)
	if err != nil {
		s.logger.Warn("extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		s.errorResponse(w, err)
		return
	}

	sess := s.store.Create(record, format)
	token, expiresAt, err := s.tokens.GenerateToken(sess.ID())
	if err != nil {
		s.store.Delete(sess.ID())
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateSessionResponse{
		SessionID: sess.ID().String(),
		Token:     token,
		ExpiresAt: expiresAt,
		Format:    format,
		Record:    sess.review.Record(),
		ChangeLog: sess.review.ChangeLog(),
	})
}

// session resolves the request's session from its token.
func (s *Server) session(r *http.Request) (*Session, error) {
	id, err := middleware.SessionID(r)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return s.store.Get(id)
}

// withSession runs fn on the request's session, holding the busy flag when exclusive is set.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, exclusive bool, fn func(*Session) error) {
	sess, err := s.session(r)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if exclusive {
		if err := sess.begin(); err != nil {
			s.errorResponse(w, err)
			return
		}
		defer sess.end()
	}
	if err := fn(sess); err != nil {
		s.errorResponse(w, err)
	}
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, true, func(sess *Session) error {
		s.store.Delete(sess.ID())
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, false, func(sess *Session) error {
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"format": sess.Format(),
			"record": sess.review.Record(),
		})
		return nil
	})
}

func (s *Server) handleSetFormat(w http.ResponseWriter, r *http.Request) {
	var req FormatRequest
	if err := s.decode(r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}
	format, err := types.ParseFormat(req.Format)
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "format", Message: err.Error()})
		return
	}
	s.withSession(w, r, false, func(sess *Session) error {
		sess.setFormat(format)
		s.jsonResponse(w, http.StatusOK, map[string]any{"format": format})
		return nil
	})
}

// handleAnalyze runs grammar analysis on the current record and replaces the open issues.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, true, func(sess *Session) error {
		record := sess.review.Record()
		if record == nil {
			return review.ErrNoRecord
		}
		ctx, cancel := context.WithTimeout(r.Context(), s.modelTimeout)
		defer cancel()

		issues, err := s.deps.Analyzer.Analyze(ctx, record, sess.Format())
		if err != nil {
			return err
		}
		sess.review.SetIssues(issues)
		s.jsonResponse(w, http.StatusOK, map[string]any{"issues": sess.review.Issues()})
		return nil
	})
}

// handleListIssues lists open issues. With ?path= it returns only the issues that can still be
// placed in that field, with their offsets.
func (s *Server) handleListIssues(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, false, func(sess *Session) error {
		path := r.URL.Query().Get("path")
		if path == "" {
			s.jsonResponse(w, http.StatusOK, map[string]any{"issues": sess.review.Issues()})
			return nil
		}
		text, ok := review.GetString(sess.review.Record(), path)
		if !ok {
			return &review.PathError{Path: path, Message: "does not address a text field"}
		}
		located := sess.review.IssuesForField(path, text)
		out := make([]LocatedIssue, 0, len(located))
		for _, l := range located {
			out = append(out, LocatedIssue{GrammarIssue: l.Issue, Start: l.Start, End: l.End})
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{"path": review.NormalizePath(path), "text": text, "issues": out})
		return nil
	})
}

func (s *Server) handleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if r.ContentLength != 0 {
		if err := s.decode(r, &req); err != nil {
			s.errorResponse(w, err)
			return
		}
	}
	s.withSession(w, r, true, func(sess *Session) error {
		outcome, err := sess.review.Accept(r.PathValue("id"), req.Suggestion)
		if err != nil {
			return err
		}
		s.jsonResponse(w, http.StatusOK, outcomeResponse(outcome, sess))
		return nil
	})
}

func (s *Server) handleIgnore(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, true, func(sess *Session) error {
		if err := sess.review.Ignore(r.PathValue("id")); err != nil {
			return err
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

// handleAcceptAll applies the first suggestion of every open issue of ?type=.
func (s *Server) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	kind := types.IssueType(strings.ToUpper(r.URL.Query().Get("type")))
	if err := s.validate.Var(string(kind), "required,oneof=SPELLING GRAMMAR STYLE"); err != nil {
		s.errorResponse(w, &ErrValidation{Field: "type", Message: "must be SPELLING, GRAMMAR or STYLE"})
		return
	}
	s.withSession(w, r, true, func(sess *Session) error {
		n, err := sess.review.AcceptAll(kind)
		if err != nil {
			return err
		}
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"applied": n,
			"record":  sess.review.Record(),
			"issues":  sess.review.Issues(),
		})
		return nil
	})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, true, func(sess *Session) error {
		outcome, err := sess.review.Undo(r.PathValue("id"))
		if err != nil {
			return err
		}
		s.jsonResponse(w, http.StatusOK, outcomeResponse(outcome, sess))
		return nil
	})
}

// handleChangeLog returns the change log newest first, as JSON or as a spreadsheet (?format=xlsx).
func (s *Server) handleChangeLog(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, false, func(sess *Session) error {
		entries := sess.review.ChangeLog()
		if r.URL.Query().Get("format") != "xlsx" {
			s.jsonResponse(w, http.StatusOK, map[string]any{"changes": entries})
			return nil
		}
		var buf bytes.Buffer
		if err := review.WriteChangeLogXLSX(&buf, entries); err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="change_log.xlsx"`)
		_, err := w.Write(buf.Bytes())
		return err
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.withSession(w, r, false, func(sess *Session) error {
		format, err := s.requestFormat(r, sess)
		if err != nil {
			return err
		}
		html, err := s.deps.Exporter.Preview(sess.review.Record(), format, sess.review.Issues())
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", rendering.KindHTML.ContentType())
		_, err = io.WriteString(w, html)
		return err
	})
}

// handleExport renders the current record. Failures leave the session untouched.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := rendering.ParseKind(r.PathValue("kind"))
	if err != nil {
		s.errorResponse(w, &ErrValidation{Field: "kind", Message: err.Error()})
		return
	}
	s.withSession(w, r, false, func(sess *Session) error {
		format, err := s.requestFormat(r, sess)
		if err != nil {
			return err
		}
		record := sess.review.Record()
		artifact, err := s.deps.Exporter.Export(r.Context(), record, format, kind)
		if err != nil {
			return err
		}
		name := "resume"
		if record != nil {
			name = record.FullName
		}
		w.Header().Set("Content-Type", kind.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename(name)))
		_, err = w.Write(artifact.Data)
		return err
	})
}

// requestFormat honours ?format= and falls back to the session's format.
func (s *Server) requestFormat(r *http.Request, sess *Session) (types.Format, error) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return sess.Format(), nil
	}
	f, err := types.ParseFormat(q)
	if err != nil {
		return "", &ErrValidation{Field: "format", Message: err.Error()}
	}
	return f, nil
}

// decode reads a JSON body into v and validates it.
func (s *Server) decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return &ErrValidation{Field: verrs[0].Field(), Message: "failed '" + verrs[0].Tag() + "' check"}
		}
		return &ErrValidation{Field: "body", Message: err.Error()}
	}
	return nil
}

func outcomeResponse(o review.Outcome, sess *Session) OutcomeResponse {
	return OutcomeResponse{
		Applied: o.Applied,
		Reason:  o.Reason,
		Entry:   o.Entry,
		Record:  sess.review.Record(),
	}
}

func humanBytes(n int64) string {
	return fmt.Sprintf("%d MB", n>>20)
}
