package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/elonfeng/reachscore/internal/config"
	"github.com/elonfeng/reachscore/internal/logging"
	"github.com/elonfeng/reachscore/internal/store"
	"github.com/elonfeng/reachscore/pkg/batch"
	"github.com/elonfeng/reachscore/pkg/content"
	"github.com/elonfeng/reachscore/pkg/score"
	"github.com/elonfeng/reachscore/pkg/server"
)

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

// setup loads config and builds the logger shared by all commands.
func setup(cmd *cobra.Command) (*config.Config, logging.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return cfg, log, nil
}

// saveRun stores run when saving is requested by flag or config.
func saveRun(ctx context.Context, cfg *config.Config, log logging.Logger, run *store.Run) error {
	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	log.WithFields(logging.Fields{
		"run_id": run.ID,
		"kind":   run.Kind,
		"db":     cfg.Database.Path,
	}).Info("saved run")
	return nil
}

// floatFlag returns the flag value when set on the command line, or fallback.
func floatFlag(cmd *cobra.Command, name string, value, fallback float64) float64 {
	if cmd.Flags().Changed(name) {
		return value
	}
	return fallback
}

func runScore(cmd *cobra.Command, f scoreFlags) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	d := cfg.Score.Defaults

	probs := score.Probabilities{
		Favorite:      floatFlag(cmd, "likes", f.likes, d.Likes),
		Reply:         floatFlag(cmd, "replies", f.replies, d.Replies),
		Repost:        floatFlag(cmd, "reposts", f.reposts, d.Reposts),
		Quote:         floatFlag(cmd, "quotes", f.quotes, d.Quotes),
		FollowAuthor:  floatFlag(cmd, "follow", f.follow, d.Follow),
		VideoView:     floatFlag(cmd, "video-views", f.videoViews, d.VideoViews),
		ProfileClick:  floatFlag(cmd, "profile-clicks", f.profileClicks, d.ProfileClicks),
		Share:         floatFlag(cmd, "shares", f.shares, d.Shares),
		DMShare:       floatFlag(cmd, "dm-shares", f.dmShares, d.DMShares),
		DwellTime:     floatFlag(cmd, "dwell", f.dwell, d.Dwell),
		NotInterested: floatFlag(cmd, "not-interested", f.notInterested, d.NotInterested),
		Block:         floatFlag(cmd, "block", f.block, d.Block),
		Mute:          floatFlag(cmd, "mute", f.mute, d.Mute),
		Report:        floatFlag(cmd, "report", f.report, d.Report),
	}
	mods := score.Modifiers{
		HasVideo:       f.hasVideo,
		IsOutOfNetwork: f.oon,
		PostPosition:   f.postPosition,
		PostAgeHours:   f.age,
	}

	result := score.NewDefaultCalculator().Calculate(probs, mods)

	if f.save || cfg.History.Enabled {
		if err := saveRun(cmd.Context(), cfg, log, store.NewRun(store.KindScore, "", result)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if f.jsonOutput {
		return writeJSON(out, result.Report())
	}
	printHeader(out)
	printScoreResult(out, result)
	return nil
}

func runAnalyze(cmd *cobra.Command, text string, postPosition int, age float64, oon, jsonOutput, save bool) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	analyzer := content.NewAnalyzer()
	probs, mods := analyzer.Analyze(text)

	// Command line values replace what the analyzer detected.
	mods.PostPosition = postPosition
	mods.PostAgeHours = age
	mods.IsOutOfNetwork = oon

	result := score.NewDefaultCalculator().Calculate(probs, mods)
	log.WithField("rules", analyzer.Matched(text)).Debug("analyzed text")

	if save || cfg.History.Enabled {
		if err := saveRun(cmd.Context(), cfg, log, store.NewRun(store.KindAnalyze, text, result)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{
			"probabilities": probs,
			"modifiers":     mods,
			"report":        result.Report(),
		})
	}
	printHeader(out)
	printAnalysis(out, text, probs)
	printScoreResult(out, result)
	return nil
}

func runDiversity(cmd *cobra.Command, posts int, jsonOutput bool) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("posts") {
		posts = cfg.Diversity.Posts
	}
	if posts < 0 {
		return fmt.Errorf("--posts must not be negative, got %d", posts)
	}

	rows := score.DiversityTable(posts)
	out := cmd.OutOrStdout()
	if jsonOutput {
		return writeJSON(out, map[string]any{
			"data":                      rows,
			"diminishing_returns_after": score.DiminishingReturnsAfter(),
		})
	}
	printHeader(out)
	printDiversity(out, rows)
	return nil
}

type batchOpts struct {
	file       string
	feed       string
	posts      []string
	sameAuthor bool
	jsonOutput bool
	save       bool
}

func runBatch(cmd *cobra.Command, opts batchOpts) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("same-author") {
		opts.sameAuthor = cfg.Batch.SameAuthor
	}

	posts, err := readBatchPosts(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}
	log.WithField("posts", len(posts)).Debug("batch input loaded")

	result := batch.New(nil, nil).Analyze(posts, opts.sameAuthor)

	if opts.save || cfg.History.Enabled {
		if err := saveRun(cmd.Context(), cfg, log, store.NewBatchRun(posts, result)); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		return writeJSON(out, result)
	}
	printHeader(out)
	printBatch(out, result)
	return nil
}

var errNoPosts = errors.New("no posts given (use --file, --feed or pass posts as arguments)")

func readBatchPosts(stdin io.Reader, opts batchOpts) ([]string, error) {
	switch {
	case opts.file == "-":
		return batch.ReadLines(stdin)
	case opts.file != "":
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, fmt.Errorf("open posts file: %w", err)
		}
		defer f.Close()
		return batch.ReadLines(f)
	case opts.feed != "":
		f, err := os.Open(opts.feed)
		if err != nil {
			return nil, fmt.Errorf("open feed file: %w", err)
		}
		defer f.Close()
		return batch.ReadFeed(f)
	case len(opts.posts) > 0:
		return opts.posts, nil
	}
	return nil, errNoPosts
}

func runHistory(cmd *cobra.Command, id int64, kind string, minScore float64, limit int, jsonOutput bool) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	if id > 0 {
		run, err := db.GetRun(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if jsonOutput {
			return writeJSON(out, run)
		}
		printRun(out, run)
		return nil
	}

	runs, err := db.ListRuns(cmd.Context(), store.ListOpts{
		Kind:     store.Kind(kind),
		MinScore: minScore,
		Limit:    limit,
	})
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if jsonOutput {
		if runs == nil {
			runs = []store.Run{}
		}
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "no saved runs (save one with: reachscore score --save)")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSCORE\tINPUT\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%s\t%s\n",
			r.ID, r.Kind, r.FinalScore, batch.Preview(firstLine(r.Input), 40),
			r.CreatedAt.Format(time.RFC3339))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	counts, err := db.CountByKind(cmd.Context())
	if err != nil {
		return fmt.Errorf("count runs: %w", err)
	}
	printCounts(out, counts)
	return nil
}

func runServe(cmd *cobra.Command, port int, history bool) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	var db store.Store
	if history || cfg.History.Enabled {
		s, err := store.New(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()
		db = s
		log.WithField("db", cfg.Database.Path).Info("run history enabled")
	}

	srv := server.New(db, log, port)
	return srv.ListenAndServe()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
