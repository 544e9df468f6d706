package review_test

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/internal/review"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

func deck(gen uint64, fronts ...string) store.CardList {
	var cards []models.Card
	for i, f := range fronts {
		cards = append(cards, models.Card{ID: models.ID(strconv.Itoa(i + 1)), FrontText: f, BackText: f + "-back"})
	}
	return store.CardList{Gen: gen, Items: cards}
}

var _ = Describe("Review session", func() {
	Context("with no cards", func() {
		It("should show the placeholder and ignore every transition", func() {
			s := review.NewSession(store.CardList{Gen: 1})
			s.Next()
			s.Prev()
			s.Flip()

			v := s.View()
			Expect(v.Empty).To(BeTrue())
			Expect(v.Text).To(Equal("No cards in this filter."))
			Expect(s.Index()).To(BeZero())
			Expect(s.Face()).To(Equal(models.Front))
			_, ok := s.Current()
			Expect(ok).To(BeFalse())
		})
	})

	Context("moving through a deck", func() {
		var s *review.Session

		BeforeEach(func() {
			s = review.NewSession(deck(1, "one", "two", "three"))
		})

		It("should start on the first card's front", func() {
			v := s.View()
			Expect(v.Position).To(Equal(1))
			Expect(v.Total).To(Equal(3))
			Expect(v.Face).To(Equal(models.Front))
			Expect(v.Text).To(Equal("one"))
			Expect(v.AtStart).To(BeTrue())
			Expect(v.AtEnd).To(BeFalse())
		})

		It("should flip without moving", func() {
			s.Flip()
			Expect(s.View().Text).To(Equal("one-back"))
			Expect(s.Index()).To(BeZero())
			s.Flip()
			Expect(s.Face()).To(Equal(models.Front))
		})

		It("should show the front again after next", func() {
			s.Flip()
			s.Next()
			Expect(s.Index()).To(Equal(1))
			Expect(s.Face()).To(Equal(models.Front))
		})

		It("should stay on the last card but reset the face", func() {
			s.Next()
			s.Next()
			s.Flip()
			s.Next()
			Expect(s.Index()).To(Equal(2))
			Expect(s.Face()).To(Equal(models.Front))
			Expect(s.View().AtEnd).To(BeTrue())
		})

		It("should stay on the first card but reset the face", func() {
			s.Flip()
			s.Prev()
			Expect(s.Index()).To(BeZero())
			Expect(s.Face()).To(Equal(models.Front))
		})

		It("should reset when handed a new list with identical content", func() {
			s.Next()
			s.Flip()
			Expect(s.Sync(deck(2, "one", "two", "three"))).To(BeTrue())
			Expect(s.Index()).To(BeZero())
			Expect(s.Face()).To(Equal(models.Front))
		})

		It("should keep its place for the same list", func() {
			s.Next()
			Expect(s.Sync(deck(1, "one", "two", "three"))).To(BeFalse())
			Expect(s.Index()).To(Equal(1))
		})

		It("should never point past a shrunk list", func() {
			s.Next()
			s.Next()
			s.Sync(deck(3, "only"))
			card, ok := s.Current()
			Expect(ok).To(BeTrue())
			Expect(card.FrontText).To(Equal("only"))
		})
	})

	Context("face content", func() {
		DescribeTable("FaceContent",
			func(card models.Card, face models.Face, wantImage, wantText string) {
				img, text := review.FaceContent(card, face)
				Expect(img).To(Equal(wantImage))
				Expect(text).To(Equal(wantText))
			},
			Entry("text front", models.Card{FrontText: "dog", BackText: "perro"}, models.Front, "", "dog"),
			Entry("text back", models.Card{FrontText: "dog", BackText: "perro"}, models.Back, "", "perro"),
			Entry("image wins over text", models.Card{FrontText: "dog", FrontImageURL: "http://h/f.png"}, models.Front, "http://h/f.png", ""),
			Entry("image without text", models.Card{FrontImageURL: "http://h/f.png"}, models.Front, "http://h/f.png", ""),
			Entry("back image only", models.Card{FrontText: "q", BackImageURL: "http://h/b.png"}, models.Back, "http://h/b.png", ""),
			Entry("empty side", models.Card{FrontText: "q"}, models.Back, "", "(no content)"),
		)

		It("should show 'dog' then 'perro' for a text card", func() {
			s := review.NewSession(store.CardList{Gen: 1, Items: []models.Card{{ID: "1", FrontText: "dog", BackText: "perro"}}})
			Expect(s.View().Text).To(Equal("dog"))
			s.Flip()
			Expect(s.View().Text).To(Equal("perro"))
			Expect(s.View().Face).To(Equal(models.Back))
		})
	})
})
