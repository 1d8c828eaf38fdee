package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/resume-screener/internal/extraction"
	"github.com/jonathan/resume-screener/internal/features"
	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/scoring"
	"github.com/jonathan/resume-screener/internal/types"
	"github.com/jonathan/resume-screener/internal/workspace"
)

// maxUploadBytes caps one resume upload request.
const maxUploadBytes = 64 << 20

// handleCreateJob builds a job's feature schema from an inline job
// description or a posting URL. The schema document is written even when
// feature derivation fails, so the job always exists afterwards.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	jobID := req.JobID
	if jobID == "" {
		jobID = uuid.NewString()
	} else if !validJobID(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	if s.store.Exists(jobID) {
		s.errorResponse(w, http.StatusConflict, fmt.Sprintf("job %s already exists", jobID))
		return
	}

	jd := req.JD
	if req.JDURL != "" {
		text, _, err := ingestion.FromURL(r.Context(), req.JDURL, ingestion.Options{
			UseBrowser: s.cfg.UseBrowser,
			Log:        s.log,
		})
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "failed to ingest job posting: "+err.Error())
			return
		}
		jd = text
	}

	schemaPath, err := s.generator.Generate(r.Context(), jobID, jd, req.Checklist)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to create job: "+err.Error())
		return
	}

	schema, err := s.store.LoadByJobID(jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "failed to load created schema: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"job_id":        jobID,
		"schema_path":   schemaPath,
		"feature_count": len(schema.Features),
		"features":      schema.FeatureNames(),
	})
}

// handleJobExists reports whether a feature schema exists for the job.
func (s *Server) handleJobExists(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if !validJobID(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"exists": s.store.Exists(jobID),
	})
}

// handleUploadResumes stores resume files for a job. Unsupported file types
// are rejected individually; the rest of the batch still lands.
func (s *Server) handleUploadResumes(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if !validJobID(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	if !s.store.Exists(jobID) {
		s.errorResponse(w, http.StatusNotFound, (&ErrJobNotFound{JobID: jobID}).Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "no files in \"files\" form field")
		return
	}

	dir := s.paths.ResumesDir(jobID)
	if err := workspace.EnsureDir(dir); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	var uploaded, rejected []string
	for _, header := range files {
		name := filepath.Base(header.Filename)
		if name == "." || name == ".." || !extraction.IsSupported(name) {
			rejected = append(rejected, header.Filename)
			continue
		}
		if err := saveUpload(header, filepath.Join(dir, name)); err != nil {
			s.log.Error().Err(err).Str("file", name).Msg("resume upload failed")
			s.errorResponse(w, http.StatusInternalServerError, "failed to store "+name)
			return
		}
		uploaded = append(uploaded, name)
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":   jobID,
		"uploaded": uploaded,
		"rejected": rejected,
	})
}

func saveUpload(header *multipart.FileHeader, dst string) error {
	src, err := header.Open()
	if err != nil {
		return fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer func() { _ = src.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// handleScore runs the scoring pipeline for a job. Concurrent requests for
// the same job share one run.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if !validJobID(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}
	if _, err := os.Stat(s.paths.ResumesDir(jobID)); err != nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no resumes uploaded for job %s", jobID))
		return
	}

	result, err, shared := s.scoreGroup.Do(jobID, func() (any, error) {
		// The run may be shared with later callers, so it must not die with
		// the first caller's connection.
		return s.orchestrator.Run(context.WithoutCancel(r.Context()), jobID)
	})
	if err != nil {
		if errors.Is(err, features.ErrSchemaNotFound) {
			s.errorResponse(w, http.StatusNotFound, (&ErrJobNotFound{JobID: jobID}).Error())
			return
		}
		s.errorResponse(w, HTTPStatus(err), "scoring run failed: "+err.Error())
		return
	}

	run := result.(*scoring.RunResult)
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"job_id":      jobID,
		"result_path": run.WorkbookPath,
		"scored":      run.Scored,
		"skipped":     run.Skipped,
		"dropped":     run.Dropped,
		"shared_run":  shared,
	})
}

// handleResults streams the job's scoring workbook as a download.
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("job_id")
	if !validJobID(jobID) {
		s.errorResponse(w, http.StatusBadRequest, "invalid job_id")
		return
	}

	path := s.paths.WorkbookPath(jobID)
	if _, err := os.Stat(path); err != nil {
		s.errorResponse(w, http.StatusNotFound, fmt.Sprintf("no results for job %s", jobID))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// validJobID rejects ids that could escape the workspace when joined into
// artifact paths.
func validJobID(jobID string) bool {
	if jobID == "" || jobID == "." || jobID == ".." {
		return false
	}
	return !strings.ContainsAny(jobID, "/\\")
}
