package pdf

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/flashcards/pkg/logger"
	"github.com/kpauljoseph/flashcards/pkg/utils"
)

// ImagePair is one flashcard page cut into its two sides.
type ImagePair struct {
	Question string
	Answer   string
	Hash     string
	PDFPath  string
	PageNum  int
}

type Splitter struct {
	outputDir string
	logger    *logger.Logger
}

func NewSplitter(outputDir string, logger *logger.Logger) (*Splitter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Splitter{
		outputDir: outputDir,
		logger:    logger,
	}, nil
}

// SplitImage splits a page image named after its file, hashing the file
// bytes.
func (s *Splitter) SplitImage(imagePath string) (*ImagePair, error) {
	hash, err := utils.FileHash(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash image: %w", err)
	}
	baseName := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	return s.SplitImageWithHash(imagePath, baseName, hash)
}

// SplitImageWithHash cuts the image at half height: the top becomes the
// question and the bottom the answer. Files are named
// <baseName>_<hash prefix>_{question,answer}.png.
func (s *Splitter) SplitImageWithHash(imagePath, baseName, fullHash string) (*ImagePair, error) {
	s.logger.Debug("Splitting image: %s", imagePath)

	srcFile, err := os.Open(imagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer srcFile.Close()

	src, err := png.Decode(srcFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	mid := bounds.Min.Y + bounds.Dy()/2
	top := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, mid)
	bottom := image.Rect(bounds.Min.X, mid, bounds.Max.X, bounds.Max.Y)

	short := fullHash
	if len(short) > 8 {
		short = short[:8]
	}
	questionPath := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s_question.png", baseName, short))
	answerPath := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s_answer.png", baseName, short))

	if err := s.saveRegion(src, top, questionPath); err != nil {
		return nil, fmt.Errorf("failed to save question image: %w", err)
	}
	if err := s.saveRegion(src, bottom, answerPath); err != nil {
		return nil, fmt.Errorf("failed to save answer image: %w", err)
	}

	s.logger.Trace("Created question image: %s", questionPath)
	s.logger.Trace("Created answer image: %s", answerPath)

	return &ImagePair{
		Question: questionPath,
		Answer:   answerPath,
		Hash:     fullHash,
	}, nil
}

func (s *Splitter) saveRegion(src image.Image, r image.Rectangle, path string) error {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
	return saveImage(dst, path)
}
