package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reachscore",
		Short:         "Estimate a post's algorithmic reach from engagement signals",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(scoreCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(diversityCmd())
	root.AddCommand(batchCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(serveCmd())

	return root
}

// scoreFlags holds probability flags for the score command.
type scoreFlags struct {
	likes         float64
	replies       float64
	reposts       float64
	quotes        float64
	follow        float64
	videoViews    float64
	profileClicks float64
	shares        float64
	dmShares      float64
	dwell         float64
	notInterested float64
	block         float64
	mute          float64
	report        float64

	hasVideo     bool
	oon          bool
	postPosition int
	age          float64

	jsonOutput bool
	save       bool
}

func scoreCmd() *cobra.Command {
	var f scoreFlags

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Calculate score from engagement probabilities",
		Example: `  reachscore score --likes 0.5 --replies 0.2
  reachscore score --has-video --video-views 0.4 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.Float64Var(&f.likes, "likes", 0.3, "P(like)")
	fl.Float64Var(&f.replies, "replies", 0.15, "P(reply)")
	fl.Float64Var(&f.reposts, "reposts", 0.08, "P(repost)")
	fl.Float64Var(&f.quotes, "quotes", 0.04, "P(quote)")
	fl.Float64Var(&f.follow, "follow", 0.02, "P(follow)")
	fl.Float64Var(&f.videoViews, "video-views", 0, "P(video view)")
	fl.Float64Var(&f.profileClicks, "profile-clicks", 0.12, "P(profile click)")
	fl.Float64Var(&f.shares, "shares", 0.05, "P(share)")
	fl.Float64Var(&f.dmShares, "dm-shares", 0.02, "P(DM share)")
	fl.Float64Var(&f.dwell, "dwell", 0.25, "P(dwell time)")
	fl.Float64Var(&f.notInterested, "not-interested", 0.02, "P(not interested)")
	fl.Float64Var(&f.block, "block", 0.01, "P(block)")
	fl.Float64Var(&f.mute, "mute", 0.01, "P(mute)")
	fl.Float64Var(&f.report, "report", 0, "P(report)")
	fl.BoolVar(&f.hasVideo, "has-video", false, "content has native video")
	fl.BoolVar(&f.oon, "oon", false, "out-of-network content")
	fl.IntVar(&f.postPosition, "post-position", 1, "post position today")
	fl.Float64Var(&f.age, "age", 0, "post age in hours")
	fl.BoolVar(&f.jsonOutput, "json", false, "output as JSON")
	fl.BoolVar(&f.save, "save", false, "save the run to history")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		postPosition int
		age          float64
		oon          bool
		jsonOutput   bool
		save         bool
	)

	cmd := &cobra.Command{
		Use:     "analyze TEXT",
		Short:   "Analyze post text",
		Example: `  reachscore analyze "Check out my new video!"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], postPosition, age, oon, jsonOutput, save)
		},
	}

	cmd.Flags().IntVar(&postPosition, "post-position", 1, "post position today")
	cmd.Flags().Float64Var(&age, "age", 0, "post age in hours")
	cmd.Flags().BoolVar(&oon, "oon", false, "out-of-network content")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&save, "save", false, "save the run to history")
	return cmd
}

func diversityCmd() *cobra.Command {
	var (
		posts      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "diversity",
		Short: "Show author diversity penalty",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiversity(cmd, posts, jsonOutput)
		},
	}

	cmd.Flags().IntVar(&posts, "posts", 10, "number of posts to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func batchCmd() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch [POST...]",
		Short: "Analyze multiple posts",
		Example: `  reachscore batch --file posts.txt
  reachscore batch --feed someone.rss --same-author=false
  reachscore batch "first post" "second post"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.posts = args
			return runBatch(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "file with posts, one per line (- for stdin)")
	cmd.Flags().StringVar(&opts.feed, "feed", "", "saved RSS/Atom/JSON feed file")
	cmd.Flags().BoolVar(&opts.sameAuthor, "same-author", true, "posts are from the same author (apply diversity penalty)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "output as JSON")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the run to history")
	cmd.MarkFlagsMutuallyExclusive("file", "feed")
	return cmd
}

func historyCmd() *cobra.Command {
	var (
		id         int64
		kind       string
		minScore   float64
		limit      int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, id, kind, minScore, limit, jsonOutput)
		},
	}

	cmd.Flags().Int64Var(&id, "id", 0, "show a single run")
	cmd.Flags().StringVar(&kind, "kind", "", "only show runs of this kind (score, analyze, batch)")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "minimum final score")
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to show")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func serveCmd() *cobra.Command {
	var (
		port    int
		history bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, port, history)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	cmd.Flags().BoolVar(&history, "history", false, "enable run history")
	return cmd
}
