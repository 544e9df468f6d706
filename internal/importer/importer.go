// Package importer creates cards from Goodnotes flashcard PDFs.
package importer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/internal/pdf"
	"github.com/kpauljoseph/flashcards/internal/scanner"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

// Store is what the importer needs from store.Store.
type Store interface {
	Snapshot() store.State
	CreateTag(ctx context.Context, name string) store.Outcome
	CreateCard(ctx context.Context, in api.CardInput) store.Outcome
}

type Report struct {
	PDFs       int
	Pages      int
	Flashcards int
	Created    int
	Duplicates int
	Failed     int
	CardIDs    []models.ID
	Errors     []string
}

func (r *Report) add(o Report) {
	r.PDFs += o.PDFs
	r.Pages += o.Pages
	r.Flashcards += o.Flashcards
	r.Created += o.Created
	r.Duplicates += o.Duplicates
	r.Failed += o.Failed
	r.CardIDs = append(r.CardIDs, o.CardIDs...)
	r.Errors = append(r.Errors, o.Errors...)
}

func (r Report) String() string {
	return fmt.Sprintf("%d PDFs, %d pages, %d flashcards: %d created, %d duplicates, %d failed",
		r.PDFs, r.Pages, r.Flashcards, r.Created, r.Duplicates, r.Failed)
}

type Service struct {
	store     Store
	processor pdf.PDFProcessor
	scanner   *scanner.DirectoryScanner
	logger    *logger.Logger
	// seen holds the image hashes uploaded during this run.
	seen map[string]bool
}

func NewService(s Store, processor pdf.PDFProcessor, logger *logger.Logger) *Service {
	return &Service{
		store:     s,
		processor: processor,
		scanner:   scanner.New(logger),
		logger:    logger,
		seen:      make(map[string]bool),
	}
}

// ImportPDF uploads every flashcard page of path as a card carrying
// tagIDs. Pages already uploaded in this run are skipped. Card failures
// are counted in the report; only processing errors are returned.
func (s *Service) ImportPDF(ctx context.Context, path string, tagIDs []models.ID) (Report, error) {
	report := Report{PDFs: 1}

	stats, err := s.processor.ProcessPDF(ctx, path)
	if err != nil {
		return report, fmt.Errorf("failed to process %s: %w", path, err)
	}
	report.Pages = stats.TotalPages
	report.Flashcards = stats.FlashcardCount

	for _, pair := range stats.Pairs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if pair.Hash != "" && s.seen[pair.Hash] {
			s.logger.Debug("skipping duplicate page %d of %s", pair.PageNum, path)
			report.Duplicates++
			continue
		}

		in, err := cardInput(pair, tagIDs)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		out := s.store.CreateCard(ctx, in)
		if out.Err != nil {
			s.logger.Warn("page %d of %s: %v", pair.PageNum, path, out.Err)
			report.Failed++
			report.Errors = append(report.Errors, out.Err.Error())
			continue
		}
		if pair.Hash != "" {
			s.seen[pair.Hash] = true
		}
		report.Created++
		report.CardIDs = append(report.CardIDs, out.ID)
	}

	s.logger.Info("Imported %s: %d cards created", path, report.Created)
	return report, nil
}

// ImportDir imports every PDF under dir. With tagFromPath each file also
// gets a tag named after its relative path, created when missing.
func (s *Service) ImportDir(ctx context.Context, dir string, tagIDs []models.ID, tagFromPath bool) (Report, error) {
	var total Report

	pdfs, err := s.scanner.FindPDFs(ctx, dir)
	if err != nil {
		return total, err
	}

	for _, file := range pdfs {
		ids := tagIDs
		if tagFromPath {
			id, err := s.EnsureTag(ctx, TagNameFromPath(file.RelativePath))
			if err != nil {
				total.Errors = append(total.Errors, err.Error())
				total.Failed++
				continue
			}
			ids = append(append([]models.ID(nil), tagIDs...), id)
		}

		r, err := s.ImportPDF(ctx, file.AbsolutePath, ids)
		total.add(r)
		if err != nil {
			if ctx.Err() != nil {
				return total, err
			}
			s.logger.Error("%s: %v", file.RelativePath, err)
			total.Errors = append(total.Errors, err.Error())
		}
	}
	return total, nil
}

// EnsureTag returns the id of the tag called name, creating it if the
// store does not know it yet.
func (s *Service) EnsureTag(ctx context.Context, name string) (models.ID, error) {
	for _, t := range s.store.Snapshot().Tags {
		if t.Name == name {
			return t.ID, nil
		}
	}
	out := s.store.CreateTag(ctx, name)
	if out.Err != nil {
		return "", fmt.Errorf("failed to create tag %q: %w", name, out.Err)
	}
	return out.ID, nil
}

func cardInput(pair pdf.ImagePair, tagIDs []models.ID) (api.CardInput, error) {
	front, err := api.LoadFile(pair.Question)
	if err != nil {
		return api.CardInput{}, err
	}
	back, err := api.LoadFile(pair.Answer)
	if err != nil {
		return api.CardInput{}, err
	}
	return api.CardInput{FrontImage: front, BackImage: back, TagIDs: tagIDs}, nil
}

// TagNameFromPath turns a relative PDF path into a tag name:
// "biology/cells.pdf" becomes "biology/cells".
func TagNameFromPath(relativePath string) string {
	name := strings.TrimSuffix(relativePath, filepath.Ext(relativePath))
	return strings.Trim(filepath.ToSlash(name), "/")
}
