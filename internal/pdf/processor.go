package pdf

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	pdfcpu "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/models"
	"github.com/kpauljoseph/flashcards/pkg/utils"
)

const (
	DimensionTolerance = 1.0

	QuestionKeyword = "QUESTION"
	AnswerKeyword   = "ANSWER"
)

type Processor struct {
	tempDir            string
	flashcardSize      models.PageDimensions
	skipMarkerCheck    bool
	skipDimensionCheck bool
	splitter           *Splitter
	logger             *logger.Logger
}

// NewProcessor renders pages into tempDir and writes split pairs to
// outputDir. A zero flashcardSize means the standard Goodnotes size.
func NewProcessor(tempDir, outputDir string, flashcardSize models.PageDimensions, skipMarkerCheck, skipDimensionCheck bool, logger *logger.Logger) (*Processor, error) {
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	splitter, err := NewSplitter(outputDir, logger)
	if err != nil {
		return nil, err
	}
	if flashcardSize.Width == 0 || flashcardSize.Height == 0 {
		flashcardSize = models.PageDimensions{
			Width:  utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH,
			Height: utils.GOODNOTES_STANDARD_FLASHCARD_HEIGHT,
		}
	}
	return &Processor{
		tempDir:            tempDir,
		flashcardSize:      flashcardSize,
		skipMarkerCheck:    skipMarkerCheck,
		skipDimensionCheck: skipDimensionCheck,
		splitter:           splitter,
		logger:             logger,
	}, nil
}

func (p *Processor) ShouldCheckMarkers() bool {
	return !p.skipMarkerCheck
}

func (p *Processor) ShouldCheckDimensions() bool {
	return !p.skipDimensionCheck
}

func (p *Processor) ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error) {
	var stats ProcessingStats
	p.logger.Debug("Processing PDF: %s", pdfPath)

	if p.ShouldCheckDimensions() && !p.anyPageMatches(pdfPath) {
		p.logger.Info("No flashcard sized pages in %s", filepath.Base(pdfPath))
		return stats, nil
	}

	doc, err := fitz.New(pdfPath)
	if err != nil {
		return stats, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	stats.TotalPages = doc.NumPage()
	baseName := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))

	// fitz pages are zero indexed
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		ok, err := p.isFlashcardPage(doc, pageNum)
		if err != nil {
			return stats, err
		}
		if !ok {
			stats.SkippedPages++
			continue
		}
		p.logger.Debug("Found flashcard page: %d", pageNum)

		img, err := doc.Image(pageNum)
		if err != nil {
			return stats, fmt.Errorf("failed to extract image for page %d: %w", pageNum, err)
		}

		hash, err := utils.GenerateImageHash(img)
		if err != nil {
			return stats, fmt.Errorf("failed to hash page %d: %w", pageNum, err)
		}

		imagePath := filepath.Join(p.tempDir, fmt.Sprintf("%s_page%d.png", baseName, pageNum+1))
		if err := saveImage(img, imagePath); err != nil {
			return stats, fmt.Errorf("failed to save image for page %d: %w", pageNum, err)
		}

		pair, err := p.splitter.SplitImageWithHash(imagePath, fmt.Sprintf("%s_page%d", baseName, pageNum+1), hash)
		if err != nil {
			return stats, fmt.Errorf("failed to split page %d: %w", pageNum, err)
		}
		pair.PDFPath = pdfPath
		pair.PageNum = pageNum + 1
		stats.Pairs = append(stats.Pairs, *pair)
		stats.FlashcardCount++
	}

	p.logger.Debug("%s: %d of %d pages are flashcards", baseName, stats.FlashcardCount, stats.TotalPages)
	return stats, nil
}

// anyPageMatches asks pdfcpu for the page sizes so files without a single
// flashcard page are skipped without rendering. When pdfcpu cannot read the
// file the per-page check decides.
func (p *Processor) anyPageMatches(pdfPath string) bool {
	dims, err := pdfcpu.PageDimsFile(pdfPath)
	if err != nil {
		p.logger.Debug("pdfcpu could not read page sizes of %s: %v", pdfPath, err)
		return true
	}
	for _, d := range dims {
		if p.MatchesFlashcardDimensions(d.Width, d.Height) {
			return true
		}
	}
	return false
}

func (p *Processor) isFlashcardPage(doc *fitz.Document, pageNum int) (bool, error) {
	if p.ShouldCheckDimensions() {
		bounds, err := doc.Bound(pageNum)
		if err != nil {
			return false, fmt.Errorf("failed to get bounds for page %d: %w", pageNum, err)
		}
		width, height := float64(bounds.Dx()), float64(bounds.Dy())
		p.logger.Trace("Page %d dimensions: %.2f x %.2f", pageNum, width, height)
		if !p.MatchesFlashcardDimensions(width, height) {
			return false, nil
		}
	}

	if p.ShouldCheckMarkers() {
		text, err := doc.Text(pageNum)
		if err != nil {
			p.logger.Warn("couldn't extract text from page %d: %v", pageNum, err)
			return false, nil
		}
		return ContainsFlashcardMarkers(text), nil
	}
	return true, nil
}

// MatchesFlashcardDimensions accepts the configured size in either
// orientation.
func (p *Processor) MatchesFlashcardDimensions(width, height float64) bool {
	w, h := p.flashcardSize.Width, p.flashcardSize.Height
	upright := within(width, w) && within(height, h)
	rotated := within(width, h) && within(height, w)
	return upright || rotated
}

// ContainsFlashcardMarkers is case sensitive; Goodnotes prints both markers
// in capitals.
func ContainsFlashcardMarkers(text string) bool {
	return strings.Contains(text, QuestionKeyword) && strings.Contains(text, AnswerKeyword)
}

func within(got, want float64) bool {
	return math.Abs(got-want) <= DimensionTolerance
}

func saveImage(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

// Cleanup removes rendered pages. Split pairs in the output dir stay.
func (p *Processor) Cleanup() error {
	return os.RemoveAll(p.tempDir)
}
