package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"smartdash/internal/domain/candidate"
	"smartdash/internal/repository"
	"smartdash/internal/resumeparser"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

type UploadInput struct {
	Filename string
	Content  io.Reader
}

type CandidateUsecase interface {
	Upload(ctx context.Context, in UploadInput) (candidate.Candidate, error)
	List(ctx context.Context, skip, limit int) ([]candidate.Candidate, error)
	Get(ctx context.Context, id string) (candidate.Candidate, error)
	UpdateStatus(ctx context.Context, id string, status string) (candidate.Candidate, error)
}

type ParserLookup interface {
	Get(kind resumeparser.Kind) (resumeparser.Parser, error)
}

type ParserPreference interface {
	ParserPreference() resumeparser.Kind
}

type Candidates struct {
	repo      repository.CandidateRepository
	parsers   ParserLookup
	settings  ParserPreference
	uploadDir string
	logger    *log.Logger
	newID     func() string
}

func NewCandidateUsecase(repo repository.CandidateRepository, parsers ParserLookup, settings ParserPreference, uploadDir string, logger *log.Logger) *Candidates {
	if strings.TrimSpace(uploadDir) == "" {
		uploadDir = "uploads"
	}
	return &Candidates{
		repo:      repo,
		parsers:   parsers,
		settings:  settings,
		uploadDir: uploadDir,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Upload stores the file, parses it with the current preference and saves a
// Pending candidate.
func (u *Candidates) Upload(ctx context.Context, in UploadInput) (candidate.Candidate, error) {
	name := filepath.Base(strings.TrimSpace(in.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) || in.Content == nil {
		return candidate.Candidate{}, fmt.Errorf("%w: missing file", ErrInvalidInput)
	}

	id := u.newID()
	path, err := u.save(id, name, in.Content)
	if err != nil {
		u.logf("[Resume] error processing resume upload: %v", err)
		return candidate.Candidate{}, &UploadError{Err: err}
	}

	kind := u.settings.ParserPreference()
	u.logf("[Resume] using '%s' for resume parsing", kind)

	fields, err := u.parse(ctx, kind, path)
	if err != nil {
		u.logf("[Resume] error parsing resume with %s: %v", kind, err)
		return candidate.Candidate{}, &ParseError{Kind: kind, Err: err}
	}

	c := candidate.Candidate{
		ID:              id,
		Name:            fields.Name,
		Email:           fields.Email,
		MobileNumber:    fields.MobileNumber,
		Skills:          fields.Skills,
		CollegeName:     fields.CollegeName,
		Degree:          fields.Degree,
		Designation:     fields.Designation,
		CompanyNames:    fields.CompanyNames,
		TotalExperience: fields.TotalExperience,
		Status:          candidate.StatusPending,
		ResumeFilePath:  &path,
	}
	if c.Skills == nil {
		c.Skills = []string{}
	}

	if err := u.repo.Create(ctx, c); err != nil {
		u.logf("[Resume] store candidate %s failed: %v", id, err)
		return candidate.Candidate{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	u.logf("[Resume] created candidate %s skills=%d", id, len(c.Skills))
	return c, nil
}

func (u *Candidates) parse(ctx context.Context, kind resumeparser.Kind, path string) (resumeparser.Fields, error) {
	p, err := u.parsers.Get(kind)
	if err != nil {
		return resumeparser.Fields{}, err
	}
	return p.Parse(ctx, path)
}

// save writes to a temp file first so a failed copy never leaves a partial
// resume in the upload directory.
func (u *Candidates) save(id, name string, r io.Reader) (string, error) {
	if err := os.MkdirAll(u.uploadDir, 0o755); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(u.uploadDir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	dst := filepath.Join(u.uploadDir, id+"_"+name)
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (u *Candidates) List(ctx context.Context, skip, limit int) ([]candidate.Candidate, error) {
	if skip < 0 || limit < 1 || limit > MaxListLimit {
		return nil, ErrInvalidInput
	}
	out, err := u.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

func (u *Candidates) Get(ctx context.Context, id string) (candidate.Candidate, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return candidate.Candidate{}, ErrCandidateNotFound
		}
		return candidate.Candidate{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return c, nil
}

func (u *Candidates) UpdateStatus(ctx context.Context, id string, status string) (candidate.Candidate, error) {
	st := candidate.Status(strings.TrimSpace(status))
	if !st.Valid() {
		return candidate.Candidate{}, ErrInvalidStatus
	}
	c, err := u.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return candidate.Candidate{}, ErrCandidateNotFound
		}
		return candidate.Candidate{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return c, nil
}

func (u *Candidates) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

var _ CandidateUsecase = (*Candidates)(nil)
