package store_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/pkg/models"
)

func idPtr(id models.ID) *models.ID {
	return &id
}

func cardTexts(st store.State) []string {
	var out []string
	for _, c := range st.Cards.Items {
		out = append(out, c.FrontText)
	}
	return out
}

var _ = Describe("Store", func() {
	var (
		fake  *fakeAPI
		st    *store.Store
		ctx   context.Context
		nouns models.Tag
		verbs models.Tag
	)

	BeforeEach(func() {
		fake = newFakeAPI()
		st = store.New(fake, storeTestLogger())
		ctx = context.Background()

		nouns = fake.addTag("Nouns")
		verbs = fake.addTag("Verbs")
		fake.addCard("dog", "perro", nouns)
		fake.addCard("run", "correr", verbs)
		fake.addCard("cat", "gato", nouns)
	})

	Context("RefreshAll", func() {
		It("should start empty", func() {
			snap := st.Snapshot()
			Expect(snap.Tags).To(BeEmpty())
			Expect(snap.Cards.Len()).To(BeZero())
			Expect(snap.SelectedTagID).To(BeNil())
			Expect(snap.LastError).To(BeEmpty())
		})

		It("should fetch tags before cards", func() {
			out := st.RefreshAll(ctx)
			Expect(out.OK()).To(BeTrue())
			Expect(fake.callOrder()).To(Equal([]string{"ListTags", "ListCards"}))

			snap := st.Snapshot()
			Expect(snap.Tags).To(Equal([]models.Tag{nouns, verbs}))
			Expect(cardTexts(snap)).To(Equal([]string{"dog", "run", "cat"}))
		})

		It("should be idempotent but hand out a new card list each time", func() {
			st.RefreshAll(ctx)
			first := st.Snapshot()
			st.RefreshAll(ctx)
			second := st.Snapshot()

			Expect(second.Tags).To(Equal(first.Tags))
			Expect(second.Cards.Items).To(Equal(first.Cards.Items))
			Expect(second.Cards.Gen).To(BeNumerically(">", first.Cards.Gen))
		})

		It("should keep prior state when the tag fetch fails", func() {
			st.RefreshAll(ctx)
			before := st.Snapshot()

			fake.setFail("ListTags", &api.RequestError{Status: 500, Body: "tags down"})
			out := st.RefreshAll(ctx)
			Expect(out.Err).To(MatchError("tags down"))

			after := st.Snapshot()
			Expect(after.Tags).To(Equal(before.Tags))
			Expect(after.Cards).To(Equal(before.Cards))
			Expect(after.LastError).To(Equal("tags down"))
		})

		It("should not apply tags when the card fetch fails", func() {
			fake.setFail("ListCards", errors.New("cards down"))
			st.RefreshAll(ctx)

			snap := st.Snapshot()
			Expect(snap.Tags).To(BeEmpty())
			Expect(snap.LastError).To(Equal("cards down"))
		})

		It("should clear the last error only when a refresh starts", func() {
			fake.setFail("CreateTag", errors.New("nope"))
			st.CreateTag(ctx, "Adjectives")
			Expect(st.Snapshot().LastError).To(Equal("nope"))

			st.SetFilter(ctx, idPtr(nouns.ID))
			Expect(st.Snapshot().LastError).To(Equal("nope"))

			st.RefreshAll(ctx)
			Expect(st.Snapshot().LastError).To(BeEmpty())
		})
	})

	Context("SetFilter", func() {
		BeforeEach(func() {
			st.RefreshAll(ctx)
		})

		It("should re-fetch only the cards for the tag", func() {
			tagsBefore := fake.count("ListTags")
			out := st.SetFilter(ctx, idPtr(nouns.ID))
			Expect(out.OK()).To(BeTrue())
			Expect(fake.count("ListTags")).To(Equal(tagsBefore))

			snap := st.Snapshot()
			Expect(*snap.SelectedTagID).To(Equal(nouns.ID))
			Expect(cardTexts(snap)).To(Equal([]string{"dog", "cat"}))
			tag, ok := snap.SelectedTag()
			Expect(ok).To(BeTrue())
			Expect(tag.Name).To(Equal("Nouns"))
		})

		It("should return to the unfiltered set", func() {
			unfiltered := st.Snapshot().Cards.Items

			st.SetFilter(ctx, idPtr(verbs.ID))
			st.SetFilter(ctx, nil)

			snap := st.Snapshot()
			Expect(snap.SelectedTagID).To(BeNil())
			Expect(snap.Cards.Items).To(Equal(unfiltered))
			Expect(fake.filters()).To(Equal([]string{"", verbs.ID.String(), ""}))
		})

		It("should apply the filter to later refreshes", func() {
			st.SetFilter(ctx, idPtr(verbs.ID))
			st.RefreshAll(ctx)
			Expect(cardTexts(st.Snapshot())).To(Equal([]string{"run"}))
		})

		It("should drop a response that arrives after a newer filter", func() {
			release := fake.holdCards(nouns.ID.String())
			done := make(chan store.Outcome, 1)
			go func() {
				defer GinkgoRecover()
				done <- st.SetFilter(ctx, idPtr(nouns.ID))
			}()
			Eventually(fake.filters).Should(ContainElement(nouns.ID.String()))

			newer := st.SetFilter(ctx, idPtr(verbs.ID))
			Expect(newer.Stale).To(BeFalse())
			close(release)

			var older store.Outcome
			Eventually(done).Should(Receive(&older))
			Expect(older.Stale).To(BeTrue())
			Expect(older.Err).NotTo(HaveOccurred())

			snap := st.Snapshot()
			Expect(*snap.SelectedTagID).To(Equal(verbs.ID))
			Expect(cardTexts(snap)).To(Equal([]string{"run"}))
		})

		It("should keep the tags of a mutation refresh overtaken by a filter change", func() {
			fetched := len(fake.filters())
			release := fake.holdCards("")
			done := make(chan store.Outcome, 1)
			go func() {
				defer GinkgoRecover()
				done <- st.CreateTag(ctx, "Adjectives")
			}()
			Eventually(func() int { return len(fake.filters()) }).Should(Equal(fetched + 1))

			Expect(st.SetFilter(ctx, idPtr(verbs.ID)).OK()).To(BeTrue())
			close(release)

			var out store.Outcome
			Eventually(done).Should(Receive(&out))
			Expect(out.OK()).To(BeTrue())
			Expect(out.Refreshed).To(Equal(1))

			snap := st.Snapshot()
			var names []string
			for _, t := range snap.Tags {
				names = append(names, t.Name)
			}
			Expect(names).To(ContainElement("Adjectives"))
			Expect(*snap.SelectedTagID).To(Equal(verbs.ID))
			Expect(cardTexts(snap)).To(Equal([]string{"run"}))
		})

		It("should not report the error of a superseded fetch", func() {
			release := fake.holdCards(nouns.ID.String())
			done := make(chan store.Outcome, 1)
			go func() {
				defer GinkgoRecover()
				done <- st.SetFilter(ctx, idPtr(nouns.ID))
			}()
			Eventually(fake.filters).Should(ContainElement(nouns.ID.String()))

			Expect(st.SetFilter(ctx, idPtr(verbs.ID)).OK()).To(BeTrue())
			fake.setFail("ListCards", errors.New("connection reset"))
			close(release)

			var older store.Outcome
			Eventually(done).Should(Receive(&older))
			Expect(older.Err).To(MatchError("connection reset"))
			Expect(older.Stale).To(BeTrue())

			snap := st.Snapshot()
			Expect(snap.LastError).To(BeEmpty())
			Expect(cardTexts(snap)).To(Equal([]string{"run"}))
		})

		It("should still report the error of the newest fetch", func() {
			fake.setFail("ListCards", errors.New("connection reset"))
			out := st.SetFilter(ctx, idPtr(verbs.ID))
			Expect(out.Stale).To(BeFalse())
			Expect(st.Snapshot().LastError).To(Equal("connection reset"))
		})
	})

	Context("tags", func() {
		BeforeEach(func() {
			st.RefreshAll(ctx)
		})

		It("should create a tag and refresh exactly once", func() {
			tagsBefore := fake.count("ListTags")
			out := st.CreateTag(ctx, "Adjectives")

			Expect(out.OK()).To(BeTrue())
			Expect(out.RefreshRequired).To(BeTrue())
			Expect(out.Refreshed).To(Equal(1))
			Expect(out.ID).NotTo(BeEmpty())
			Expect(fake.count("ListTags")).To(Equal(tagsBefore + 1))

			var names []string
			for _, t := range st.Snapshot().Tags {
				names = append(names, t.Name)
				if t.Name == "Adjectives" {
					Expect(t.ID).To(Equal(out.ID))
				}
			}
			Expect(names).To(ContainElement("Adjectives"))
		})

		It("should record a failed create without touching the lists", func() {
			before := st.Snapshot()
			out := st.CreateTag(ctx, "Nouns")

			Expect(out.OK()).To(BeFalse())
			Expect(out.RefreshRequired).To(BeFalse())
			Expect(out.Refreshed).To(BeZero())

			after := st.Snapshot()
			Expect(after.Tags).To(Equal(before.Tags))
			Expect(after.LastError).To(ContainSubstring("must be unique"))
		})

		It("should send nothing when deletion is declined", func() {
			var prompt string
			out := st.DeleteTag(ctx, verbs, store.ConfirmFunc(func(p string) bool {
				prompt = p
				return false
			}))

			Expect(prompt).To(Equal(`Delete tag "Verbs"?`))
			Expect(out.Declined).To(BeTrue())
			Expect(out.OK()).To(BeFalse())
			Expect(fake.count("DeleteTag")).To(BeZero())
		})

		It("should treat a missing gate as a refusal", func() {
			out := st.DeleteTag(ctx, verbs, nil)
			Expect(out.Declined).To(BeTrue())
			Expect(fake.count("DeleteTag")).To(BeZero())
		})

		It("should clear the active filter before deleting its tag", func() {
			st.SetFilter(ctx, idPtr(nouns.ID))
			Expect(cardTexts(st.Snapshot())).To(Equal([]string{"dog", "cat"}))

			var filterAtDelete *models.ID
			fake.onDeleteTag = func() {
				filterAtDelete = st.Snapshot().SelectedTagID
			}

			out := st.DeleteTag(ctx, nouns, store.AlwaysConfirm)
			Expect(out.OK()).To(BeTrue())
			Expect(out.Refreshed).To(Equal(1))
			Expect(filterAtDelete).To(BeNil())

			snap := st.Snapshot()
			Expect(snap.SelectedTagID).To(BeNil())
			Expect(snap.Tags).To(Equal([]models.Tag{verbs}))
			Expect(cardTexts(snap)).To(Equal([]string{"dog", "run", "cat"}))
		})

		It("should keep another tag's filter", func() {
			st.SetFilter(ctx, idPtr(verbs.ID))
			st.DeleteTag(ctx, nouns, store.AlwaysConfirm)
			Expect(*st.Snapshot().SelectedTagID).To(Equal(verbs.ID))
		})

		It("should re-fetch unfiltered cards when deleting the filter tag fails", func() {
			st.SetFilter(ctx, idPtr(nouns.ID))
			fake.setFail("DeleteTag", &api.RequestError{Status: 500, Body: "locked"})

			out := st.DeleteTag(ctx, nouns, store.AlwaysConfirm)
			Expect(out.Err).To(MatchError("locked"))
			Expect(out.Refreshed).To(BeZero())

			snap := st.Snapshot()
			Expect(snap.SelectedTagID).To(BeNil())
			Expect(snap.LastError).To(Equal("locked"))
			Expect(cardTexts(snap)).To(Equal([]string{"dog", "run", "cat"}))
		})
	})

	Context("cards", func() {
		BeforeEach(func() {
			st.RefreshAll(ctx)
		})

		It("should create a card and refresh exactly once", func() {
			in := api.CardInput{FrontText: "house", BackText: "casa", TagIDs: []models.ID{nouns.ID}}
			out := st.CreateCard(ctx, in)

			Expect(out.OK()).To(BeTrue())
			Expect(out.Refreshed).To(Equal(1))
			Expect(fake.lastInput).To(Equal(in))
			Expect(cardTexts(st.Snapshot())).To(ContainElement("house"))
		})

		It("should allow a card with two empty sides", func() {
			out := st.CreateCard(ctx, api.CardInput{})
			Expect(out.OK()).To(BeTrue())
			Expect(st.Snapshot().Cards.Len()).To(Equal(4))
		})

		It("should report a refresh failure separately from the create", func() {
			fake.setFail("ListTags", errors.New("tags down"))
			out := st.CreateCard(ctx, api.CardInput{FrontText: "x"})

			Expect(out.OK()).To(BeTrue())
			Expect(out.RefreshErr).To(MatchError("tags down"))
			Expect(st.Snapshot().LastError).To(Equal("tags down"))
		})

		It("should record a failed create", func() {
			fake.setFail("CreateCard", &api.RequestError{Status: 400, Body: "bad image"})
			out := st.CreateCard(ctx, api.CardInput{FrontText: "x"})
			Expect(out.OK()).To(BeFalse())
			Expect(out.Refreshed).To(BeZero())
			Expect(st.Snapshot().LastError).To(Equal("bad image"))
		})

		It("should delete a confirmed card", func() {
			target := st.Snapshot().Cards.Items[0]
			var prompt string
			out := st.DeleteCard(ctx, target.ID, store.ConfirmFunc(func(p string) bool {
				prompt = p
				return true
			}))

			Expect(prompt).To(Equal("Delete card #" + target.ID.String() + "?"))
			Expect(out.OK()).To(BeTrue())
			Expect(out.Refreshed).To(Equal(1))
			Expect(cardTexts(st.Snapshot())).NotTo(ContainElement(target.FrontText))
		})

		It("should not delete a declined card", func() {
			out := st.DeleteCard(ctx, "1", store.NeverConfirm)
			Expect(out.Declined).To(BeTrue())
			Expect(fake.count("DeleteCard")).To(BeZero())
		})
	})

	Context("relations", func() {
		It("should relate, list and unrelate cards without refreshing", func() {
			listsBefore := fake.count("ListTags")

			out := st.Relate(ctx, "3", "5", "opposite")
			Expect(out.OK()).To(BeTrue())

			rels, listOut := st.Relations(ctx, "3")
			Expect(listOut.OK()).To(BeTrue())
			Expect(rels).To(HaveLen(1))
			Expect(rels[0].Note).To(Equal("opposite"))

			Expect(st.Unrelate(ctx, "3", out.ID, store.AlwaysConfirm).OK()).To(BeTrue())
			rels, _ = st.Relations(ctx, "3")
			Expect(rels).To(BeEmpty())
			Expect(fake.count("ListTags")).To(Equal(listsBefore))
		})

		It("should record relation failures", func() {
			fake.setFail("ListRelations", errors.New("gone"))
			_, out := st.Relations(ctx, "3")
			Expect(out.Err).To(MatchError("gone"))
			Expect(st.Snapshot().LastError).To(Equal("gone"))
		})
	})
})
