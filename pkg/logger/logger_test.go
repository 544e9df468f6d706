package logger_test

import (
	"bytes"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/pkg/logger"
)

var _ = Describe("Logger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
	})

	It("should prefix messages with their level", func() {
		log := logger.New(logger.WithOutput(buf), logger.WithFlags(0), logger.WithPrefix("[t] "))
		log.Info("hello %s", "world")
		log.Warn("careful")
		log.Error("broken: %d", 42)

		Expect(buf.String()).To(Equal("[t] INFO: hello world\n[t] WARN: careful\n[t] ERROR: broken: 42\n"))
	})

	It("should drop debug output unless verbose", func() {
		log := logger.New(logger.WithOutput(buf), logger.WithFlags(0))
		log.Debug("hidden")
		Expect(buf.String()).To(BeEmpty())

		log.SetVerbose(true)
		log.Debug("shown")
		Expect(buf.String()).To(Equal("DEBUG: shown\n"))
	})

	It("should only emit trace at trace level", func() {
		log := logger.New(logger.WithOutput(buf), logger.WithFlags(0))
		log.Trace("hidden")
		Expect(buf.String()).To(BeEmpty())

		log.SetLevel(logger.LevelTrace)
		log.Trace("shown")
		log.Debug("also shown")
		Expect(buf.String()).To(Equal("TRACE: shown\nDEBUG: also shown\n"))
	})

	It("should append to a log file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "flashcards.log")
		log, f, err := logger.OpenFile(path, logger.WithFlags(0))
		Expect(err).NotTo(HaveOccurred())
		log.Info("first")
		Expect(f.Close()).To(Succeed())

		Expect(path).To(BeAnExistingFile())
	})
})
