package pdf

import (
	"context"
)

// PDFProcessor turns a PDF into question/answer image pairs.
type PDFProcessor interface {
	ProcessPDF(ctx context.Context, pdfPath string) (ProcessingStats, error)
	Cleanup() error
}

type ProcessingStats struct {
	TotalPages     int
	FlashcardCount int
	SkippedPages   int
	Pairs          []ImagePair
}
