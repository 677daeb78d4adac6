package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/elonfeng/reachscore/pkg/batch"
	"github.com/elonfeng/reachscore/pkg/score"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Kind identifies which command produced a run.
type Kind string

const (
	KindScore   Kind = "score"
	KindAnalyze Kind = "analyze"
	KindBatch   Kind = "batch"
)

// Run is a saved scoring run.
type Run struct {
	ID                  int64     `db:"id" json:"id"`
	Kind                Kind      `db:"kind" json:"kind"`
	Input               string    `db:"input" json:"input"`
	FinalScore          float64   `db:"final_score" json:"final_score"`
	PositiveScore       float64   `db:"positive_score" json:"positive_score"`
	NegativeScore       float64   `db:"negative_score" json:"negative_score"`
	DiversityMultiplier float64   `db:"diversity_multiplier" json:"diversity_multiplier"`
	OONMultiplier       float64   `db:"oon_multiplier" json:"oon_multiplier"`
	AgeMultiplier       float64   `db:"age_multiplier" json:"age_multiplier"`
	VideoBonus          bool      `db:"video_bonus" json:"video_bonus"`
	Interpretation      string    `db:"interpretation" json:"interpretation"`
	RecommendationsJSON string    `db:"recommendations" json:"-"`
	Recommendations     []string  `db:"-" json:"recommendations"`
	WeightsVersion      string    `db:"weights_version" json:"weights_version"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// NewRun builds a run from a single score result.
func NewRun(kind Kind, input string, r score.Result) *Run {
	return &Run{
		Kind:                kind,
		Input:               input,
		FinalScore:          r.FinalScore,
		PositiveScore:       r.PositiveScore,
		NegativeScore:       r.NegativeScore,
		DiversityMultiplier: r.DiversityMultiplier,
		OONMultiplier:       r.OONMultiplier,
		AgeMultiplier:       r.AgeMultiplier,
		VideoBonus:          r.VideoBonusApplied,
		Interpretation:      r.Interpretation,
		Recommendations:     r.Recommendations,
		WeightsVersion:      score.WeightsVersion,
	}
}

// NewBatchRun builds a run from a batch result. The average score is stored
// as the final score and the batch advice as the only recommendation.
func NewBatchRun(posts []string, r batch.Result) *Run {
	return &Run{
		Kind:                KindBatch,
		Input:               strings.Join(posts, "\n"),
		FinalScore:          r.AverageScore,
		DiversityMultiplier: 1,
		OONMultiplier:       1,
		AgeMultiplier:       1,
		Interpretation:      score.Interpret(r.AverageScore),
		Recommendations:     []string{r.Recommendation},
		WeightsVersion:      score.WeightsVersion,
	}
}

func (r *Run) decodeRecommendations() error {
	if err := json.Unmarshal([]byte(r.RecommendationsJSON), &r.Recommendations); err != nil {
		return fmt.Errorf("decode recommendations of run %d: %w", r.ID, err)
	}
	return nil
}

// ListOpts controls run listing.
type ListOpts struct {
	Kind     Kind
	MinScore float64
	Limit    int
}

// Store is the persistence interface for run history.
type Store interface {
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id int64) (*Run, error)
	ListRuns(ctx context.Context, opts ListOpts) ([]Run, error)
	CountByKind(ctx context.Context) (map[Kind]int, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New opens a SQLite database and runs migrations.
func New(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run) error {
	recs := run.Recommendations
	if recs == nil {
		recs = []string{}
	}
	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	run.RecommendationsJSON = string(recsJSON)

	res, err := s.db.NamedExecContext(ctx, `
		INSERT INTO runs (kind, input, final_score, positive_score, negative_score,
			diversity_multiplier, oon_multiplier, age_multiplier, video_bonus,
			interpretation, recommendations, weights_version, created_at)
		VALUES (:kind, :input, :final_score, :positive_score, :negative_score,
			:diversity_multiplier, :oon_multiplier, :age_multiplier, :video_bonus,
			:interpretation, :recommendations, :weights_version, :created_at)
	`, run)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("read run id: %w", err)
	}
	run.ID = id
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id int64) (*Run, error) {
	var run Run
	err := s.db.GetContext(ctx, &run, "SELECT * FROM runs WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run %d: %w", id, err)
	}
	if err := run.decodeRecommendations(); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, opts ListOpts) ([]Run, error) {
	query := "SELECT * FROM runs WHERE 1=1"
	var args []any

	if opts.Kind != "" {
		query += " AND kind = ?"
		args = append(args, opts.Kind)
	}
	if opts.MinScore > 0 {
		query += " AND final_score >= ?"
		args = append(args, opts.MinScore)
	}

	query += " ORDER BY id DESC"

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query += " LIMIT ?"
	args = append(args, limit)

	var runs []Run
	if err := s.db.SelectContext(ctx, &runs, query, args...); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	for i := range runs {
		if err := runs[i].decodeRecommendations(); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *SQLiteStore) CountByKind(ctx context.Context) (map[Kind]int, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT kind, COUNT(*) as cnt FROM runs GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count runs by kind: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int)
	for rows.Next() {
		var kind string
		var cnt int
		if err := rows.Scan(&kind, &cnt); err != nil {
			return nil, err
		}
		counts[Kind(kind)] = cnt
	}
	return counts, rows.Err()
}
