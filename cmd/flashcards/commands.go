package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/kpauljoseph/flashcards/internal/api"
	"github.com/kpauljoseph/flashcards/internal/importer"
	"github.com/kpauljoseph/flashcards/internal/pdf"
	"github.com/kpauljoseph/flashcards/internal/store"
	"github.com/kpauljoseph/flashcards/internal/tui"
	"github.com/kpauljoseph/flashcards/pkg/models"
	"github.com/kpauljoseph/flashcards/pkg/updater"
	"github.com/kpauljoseph/flashcards/pkg/utils"
	"github.com/kpauljoseph/flashcards/pkg/version"
)

func tuiCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		return tui.Run(ctx, a.store, a.log)
	}
}

func tagsCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		if err := a.finish(a.store.RefreshAll(ctx)); err != nil {
			return err
		}
		tags := a.store.Snapshot().Tags
		if len(tags) == 0 {
			fmt.Println("no tags")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, t := range tags {
			fmt.Fprintf(w, "%s\t%s\n", t.ID, t.Name)
		}
		return w.Flush()
	}
}

func cardsCmd(fs *flag.FlagSet) runFunc {
	tag := fs.String("tag", "", "only list cards with this tag id")
	return func(ctx context.Context, a *app, args []string) error {
		var out store.Outcome
		if *tag != "" {
			id := models.ID(*tag)
			out = a.store.SetFilter(ctx, &id)
		} else {
			out = a.store.RefreshAll(ctx)
		}
		if err := a.finish(out); err != nil {
			return err
		}

		cards := a.store.Snapshot().Cards.Items
		if len(cards) == 0 {
			fmt.Println("no cards")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, c := range cards {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, side(c, models.Front), side(c, models.Back), tagNames(c.Tags))
		}
		return w.Flush()
	}
}

func addTagCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		name := strings.TrimSpace(strings.Join(args, " "))
		if name == "" {
			return errors.New("usage: flashcards add-tag <name>")
		}
		out := a.store.CreateTag(ctx, name)
		if err := a.finish(out); err != nil {
			return err
		}
		fmt.Printf("created tag #%s\n", out.ID)
		return nil
	}
}

func rmTagCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: flashcards rm-tag <id>")
		}
		id := models.ID(args[0])

		// the prompt names the tag, so look it up first
		tag := models.Tag{ID: id, Name: "#" + id.String()}
		if out := a.store.RefreshAll(ctx); out.Err != nil {
			return out.Err
		}
		for _, t := range a.store.Snapshot().Tags {
			if t.ID == id {
				tag = t
			}
		}

		out := a.store.DeleteTag(ctx, tag, a.confirm)
		if err := a.finish(out); err != nil || out.Declined {
			return err
		}
		fmt.Printf("deleted tag #%s\n", id)
		return nil
	}
}

func addCardCmd(fs *flag.FlagSet) runFunc {
	front := fs.String("front", "", "front text")
	back := fs.String("back", "", "back text")
	frontImage := fs.String("front-image", "", "path to the front image")
	backImage := fs.String("back-image", "", "path to the back image")
	tags := fs.String("tags", "", "comma-separated tag ids")
	return func(ctx context.Context, a *app, args []string) error {
		in := api.CardInput{
			FrontText: *front,
			BackText:  *back,
			TagIDs:    parseIDs(*tags),
		}
		var err error
		if *frontImage != "" {
			if in.FrontImage, err = api.LoadFile(*frontImage); err != nil {
				return err
			}
		}
		if *backImage != "" {
			if in.BackImage, err = api.LoadFile(*backImage); err != nil {
				return err
			}
		}

		out := a.store.CreateCard(ctx, in)
		if err := a.finish(out); err != nil {
			return err
		}
		fmt.Printf("created card #%s\n", out.ID)
		return nil
	}
}

func rmCardCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: flashcards rm-card <id>")
		}
		out := a.store.DeleteCard(ctx, models.ID(args[0]), a.confirm)
		if err := a.finish(out); err != nil || out.Declined {
			return err
		}
		fmt.Printf("deleted card #%s\n", args[0])
		return nil
	}
}

func relateCmd(fs *flag.FlagSet) runFunc {
	note := fs.String("note", "", "note stored with the link")
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 2 {
			return errors.New("usage: flashcards relate [-note text] <from> <to>")
		}
		out := a.store.Relate(ctx, models.ID(args[0]), models.ID(args[1]), *note)
		if err := a.finish(out); err != nil {
			return err
		}
		fmt.Printf("created relation #%s\n", out.ID)
		return nil
	}
}

func relatedCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: flashcards related <id>")
		}
		rels, out := a.store.Relations(ctx, models.ID(args[0]))
		if err := a.finish(out); err != nil {
			return err
		}
		if len(rels) == 0 {
			fmt.Println("no related cards")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, r := range rels {
			fmt.Fprintf(w, "%s\t-> %s\t%s\n", r.ID, r.ToCard, r.Note)
		}
		return w.Flush()
	}
}

func unrelateCmd(fs *flag.FlagSet) runFunc {
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 2 {
			return errors.New("usage: flashcards unrelate <card> <relation>")
		}
		out := a.store.Unrelate(ctx, models.ID(args[0]), models.ID(args[1]), a.confirm)
		if err := a.finish(out); err != nil || out.Declined {
			return err
		}
		fmt.Printf("deleted relation #%s\n", args[1])
		return nil
	}
}

func importPDFCmd(fs *flag.FlagSet) runFunc {
	tags := fs.String("tags", "", "comma-separated tag ids for every imported card")
	tagFromPath := fs.Bool("tag-from-path", false, "also tag cards with their PDF's path, creating tags as needed")
	outputDir := fs.String("output-dir", "", "directory to keep the split images (overrides config)")
	skipMarkers := fs.Bool("skip-markers", false, "do not require QUESTION/ANSWER markers")
	skipDimensions := fs.Bool("skip-dimensions", false, "do not require the flashcard page size")
	return func(ctx context.Context, a *app, args []string) error {
		if len(args) != 1 {
			return errors.New("usage: flashcards import-pdf [flags] <file or dir>")
		}
		path := args[0]
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		cfg := a.cfg
		dir := cfg.Import.OutputDir
		if *outputDir != "" {
			dir = *outputDir
		}
		if dir == "" {
			dir = utils.GetDefaultOutputDir()
		}

		processor, err := pdf.NewProcessor(
			filepath.Join(os.TempDir(), "flashcards-import"),
			dir,
			models.PageDimensions{
				Width:  cfg.FlashcardSize.Width,
				Height: cfg.FlashcardSize.Height,
			},
			*skipMarkers || cfg.Import.SkipMarkerCheck,
			*skipDimensions || cfg.Import.SkipDimensionCheck,
			a.log,
		)
		if err != nil {
			return fmt.Errorf("error initializing processor: %w", err)
		}
		defer processor.Cleanup()

		a.log.Debug("Checking API connection...")
		if out := a.store.RefreshAll(ctx); out.Err != nil {
			return fmt.Errorf("API connection error: %w", out.Err)
		}

		svc := importer.NewService(a.store, processor, a.log)
		var report importer.Report
		if info.IsDir() {
			a.log.Info("Scanning directory: %s", path)
			report, err = svc.ImportDir(ctx, path, parseIDs(*tags), *tagFromPath)
		} else {
			report, err = svc.ImportPDF(ctx, path, parseIDs(*tags))
		}
		for _, msg := range report.Errors {
			a.log.Warn("%s", msg)
		}
		if err != nil {
			return err
		}

		a.log.Info("Import complete: %s", report)
		a.log.Info("- Flashcard images saved to: %s", dir)
		return nil
	}
}

func versionCmd(fs *flag.FlagSet) runFunc {
	check := fs.Bool("check", false, "look for a newer release")
	return func(ctx context.Context, a *app, args []string) error {
		fmt.Print(version.GetDetailedVersionInfo())
		if !*check {
			return nil
		}
		info, err := updater.NewChecker(a.log).CheckForUpdates(ctx)
		if err != nil {
			return fmt.Errorf("update check failed: %w", err)
		}
		fmt.Println(info)
		return nil
	}
}

// finish turns an outcome into the command's result. A refresh failing
// after a successful mutation is only a warning.
func (a *app) finish(out store.Outcome) error {
	if out.Declined {
		fmt.Println("cancelled")
		return nil
	}
	if out.Err != nil {
		return out.Err
	}
	if out.RefreshErr != nil {
		a.log.Warn("%s succeeded but the refresh failed: %v", out.Action, out.RefreshErr)
	}
	return nil
}

func parseIDs(s string) []models.ID {
	var ids []models.ID
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, models.ID(part))
		}
	}
	return ids
}

func side(c models.Card, face models.Face) string {
	text, image := c.Side(face)
	switch {
	case image != "":
		return "[image]"
	case text == "":
		return "-"
	}
	return text
}

func tagNames(tags []models.Tag) string {
	if len(tags) == 0 {
		return "(none)"
	}
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}
