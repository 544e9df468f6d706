package api_test

import (
	"mime"
	"mime/multipart"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

func tagIDValues(enc api.TagIDEncoding, ids []models.ID) []string {
	f := api.NewForm()
	api.EncodeTagIDs(f, ids, enc)
	body, contentType, err := f.Encode()
	Expect(err).NotTo(HaveOccurred())

	_, params, err := mime.ParseMediaType(contentType)
	Expect(err).NotTo(HaveOccurred())
	form, err := multipart.NewReader(body, params["boundary"]).ReadForm(1 << 20)
	Expect(err).NotTo(HaveOccurred())
	return form.Value[api.TagIDsField]
}

var _ = Describe("Tag id encoding", func() {
	ids := []models.ID{"4", "7"}

	DescribeTable("EncodeTagIDs",
		func(enc api.TagIDEncoding, ids []models.ID, want []string) {
			Expect(tagIDValues(enc, ids)).To(Equal(want))
		},
		Entry("both", api.TagIDEncodingBoth, ids, []string{"4", "7", "4,7"}),
		Entry("repeated", api.TagIDEncodingRepeated, ids, []string{"4", "7"}),
		Entry("comma", api.TagIDEncodingCommaJoined, ids, []string{"4,7"}),
		Entry("both without ids", api.TagIDEncodingBoth, []models.ID{}, []string{""}),
		Entry("repeated without ids", api.TagIDEncodingRepeated, []models.ID{}, []string(nil)),
	)

	DescribeTable("ParseTagIDEncoding",
		func(in string, want api.TagIDEncoding) {
			enc, err := api.ParseTagIDEncoding(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(enc).To(Equal(want))
			if in != "" {
				Expect(enc.String()).To(Equal(in))
			}
		},
		Entry("default", "", api.TagIDEncodingBoth),
		Entry("both", "both", api.TagIDEncodingBoth),
		Entry("repeated", "repeated", api.TagIDEncodingRepeated),
		Entry("comma", "comma", api.TagIDEncodingCommaJoined),
	)

	It("should reject unknown encodings", func() {
		_, err := api.ParseTagIDEncoding("json")
		Expect(err).To(HaveOccurred())
	})
})
