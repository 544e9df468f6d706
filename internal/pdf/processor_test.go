package pdf_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/internal/pdf"
	"github.com/kpauljoseph/flashcards/pkg/models"
	"github.com/kpauljoseph/flashcards/pkg/utils"
)

var _ = Describe("PDF Processor", func() {
	var (
		processor *pdf.Processor
		tempDir   string
		outputDir string
	)

	standard := models.PageDimensions{
		Width:  utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH,
		Height: utils.GOODNOTES_STANDARD_FLASHCARD_HEIGHT,
	}

	BeforeEach(func() {
		root := GinkgoT().TempDir()
		tempDir = filepath.Join(root, "pages")
		outputDir = filepath.Join(root, "cards")

		var err error
		processor, err = pdf.NewProcessor(tempDir, outputDir, standard, false, false, pdfTestLogger())
		Expect(err).NotTo(HaveOccurred())
	})

	Context("flashcard dimensions", func() {
		DescribeTable("MatchesFlashcardDimensions",
			func(width, height float64, shouldMatch bool) {
				Expect(processor.MatchesFlashcardDimensions(width, height)).To(Equal(shouldMatch))
			},
			Entry("exact match", utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH, utils.GOODNOTES_STANDARD_FLASHCARD_HEIGHT, true),
			Entry("within tolerance", 455.5, 587.9, true),
			Entry("rotated exact match", utils.GOODNOTES_STANDARD_FLASHCARD_HEIGHT, utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH, true),
			Entry("rotated within tolerance", 587.9, 455.5, true),
			Entry("just outside tolerance", 456.1, 587.52, false),
			Entry("A4", 595.28, 841.89, false),
		)

		It("should use a custom size when configured", func() {
			custom, err := pdf.NewProcessor(tempDir, outputDir, models.PageDimensions{Width: 300, Height: 400}, false, false, pdfTestLogger())
			Expect(err).NotTo(HaveOccurred())
			Expect(custom.MatchesFlashcardDimensions(300, 400)).To(BeTrue())
			Expect(custom.MatchesFlashcardDimensions(455.04, 587.52)).To(BeFalse())
		})

		It("should default a zero size to the Goodnotes size", func() {
			p, err := pdf.NewProcessor(tempDir, outputDir, models.PageDimensions{}, false, false, pdfTestLogger())
			Expect(err).NotTo(HaveOccurred())
			Expect(p.MatchesFlashcardDimensions(455.04, 587.52)).To(BeTrue())
		})
	})

	DescribeTable("ContainsFlashcardMarkers",
		func(text string, shouldMatch bool) {
			Expect(pdf.ContainsFlashcardMarkers(text)).To(Equal(shouldMatch))
		},
		Entry("standard markers", "QUESTION\nsome text\nANSWER\nmore text", true),
		Entry("markers with different case", "Question\nsome text\nanswer\nmore text", false),
		Entry("only question marker", "QUESTION\nsome text", false),
		Entry("only answer marker", "ANSWER\nsome text", false),
		Entry("no markers", "some random text", false),
	)

	Context("directories", func() {
		It("should create both directories", func() {
			Expect(tempDir).To(BeADirectory())
			Expect(outputDir).To(BeADirectory())
		})

		It("should only clean up the temp directory", func() {
			Expect(processor.Cleanup()).To(Succeed())
			Expect(tempDir).NotTo(BeADirectory())
			Expect(outputDir).To(BeADirectory())
		})
	})

	Context("check flags", func() {
		It("should check markers and dimensions by default", func() {
			Expect(processor.ShouldCheckMarkers()).To(BeTrue())
			Expect(processor.ShouldCheckDimensions()).To(BeTrue())
		})

		It("should honour the skip flags", func() {
			p, err := pdf.NewProcessor(tempDir, outputDir, standard, true, true, pdfTestLogger())
			Expect(err).NotTo(HaveOccurred())
			Expect(p.ShouldCheckMarkers()).To(BeFalse())
			Expect(p.ShouldCheckDimensions()).To(BeFalse())
		})
	})

	It("should fail on a file that is not a PDF", func() {
		bogus := filepath.Join(GinkgoT().TempDir(), "bogus.pdf")
		Expect(os.WriteFile(bogus, []byte("not a pdf"), 0644)).To(Succeed())

		_, err := processor.ProcessPDF(context.Background(), bogus)
		Expect(err).To(HaveOccurred())
	})
})
