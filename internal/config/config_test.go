package config_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/internal/config"
	"github.com/kpauljoseph/flashcards/pkg/utils"
)

var _ = Describe("Config", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		for _, key := range []string{config.EnvAPIBase, config.EnvConfirm, config.EnvDevAPIAddr, config.EnvDevAPIDB, config.EnvLogFile} {
			GinkgoT().Setenv(key, "")
		}
	})

	writeConfig := func(body string) string {
		path := filepath.Join(dir, "config.yaml")
		Expect(os.WriteFile(path, []byte(body), 0644)).To(Succeed())
		return path
	}

	It("should fall back to defaults when the file is missing", func() {
		cfg, err := config.Load(filepath.Join(dir, "missing.yaml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.BaseURL).To(Equal(config.DefaultAPIBase))
		Expect(cfg.API.TagIDEncoding).To(Equal("both"))
		Expect(cfg.API.Timeout).To(BeZero())
		Expect(cfg.Confirm).To(Equal(config.ConfirmAsk))
		Expect(cfg.FlashcardSize.Width).To(Equal(utils.GOODNOTES_STANDARD_FLASHCARD_WIDTH))
		Expect(cfg.DevAPI.ListenAddr).To(Equal(config.DefaultDevAPIAddr))
	})

	It("should read values from YAML", func() {
		path := writeConfig(`
api:
  base_url: http://cards.local/api
  tag_id_encoding: comma
  timeout: 5s
confirm: "yes"
verbose: true
import:
  skip_marker_check: true
`)
		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.BaseURL).To(Equal("http://cards.local/api"))
		Expect(cfg.API.TagIDEncoding).To(Equal("comma"))
		Expect(cfg.API.Timeout).To(Equal(5 * time.Second))
		Expect(cfg.Confirm).To(Equal(config.ConfirmYes))
		Expect(cfg.Verbose).To(BeTrue())
		Expect(cfg.Import.SkipMarkerCheck).To(BeTrue())
	})

	It("should let the environment override the file", func() {
		path := writeConfig("api:\n  base_url: http://file/api\n")
		GinkgoT().Setenv(config.EnvAPIBase, "http://env/api/")
		GinkgoT().Setenv(config.EnvDevAPIDB, "/tmp/other.db")

		cfg, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.API.BaseURL).To(Equal("http://env/api"))
		Expect(cfg.DevAPI.DBPath).To(Equal("/tmp/other.db"))
	})

	DescribeTable("validation",
		func(body string, message string) {
			_, err := config.Load(writeConfig(body))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(message))
		},
		Entry("unknown encoding", "api:\n  tag_id_encoding: json\n", "tag_id_encoding"),
		Entry("unknown confirm mode", "confirm: maybe\n", "confirm"),
		Entry("negative timeout", "api:\n  timeout: -1s\n", "timeout"),
		Entry("broken yaml", "api: [\n", "failed to parse"),
	)
})
