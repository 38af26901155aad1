package replication

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"transcript-search/pkg/db"
	"transcript-search/pkg/domain"
)

// Config wires the replication dependencies.
type Config struct {
	Mongo    *db.Client
	Postgres db.DBProvider
}

// Replicator replicates stored video results from MongoDB to Postgres.
//
// This is intentionally a one-shot, "copy everything" flow for now.
type Replicator struct {
	mongo *db.Client
	pg    db.DBProvider
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo client is required")
	}
	if cfg.Postgres == nil {
		return nil, fmt.Errorf("postgres client is required")
	}
	return &Replicator{
		mongo: cfg.Mongo,
		pg:    cfg.Postgres,
	}, nil
}

// ReplicateResultsMongoToPostgres reads all video results from Mongo and inserts
// them into the Postgres `search_result` table.
//
// Behavior: if a URL already exists in Postgres, we skip inserting it.
// Processes results in batches to avoid loading all URLs into memory at once.
func (r *Replicator) ReplicateResultsMongoToPostgres(ctx context.Context) error {
	if err := r.ensureResultSchema(ctx); err != nil {
		return err
	}

	results, err := r.mongo.GetAllResults(ctx)
	if err != nil {
		return err
	}

	log.Printf("Loaded %d results from Mongo, processing in batches...", len(results))

	totalProcessed, totalInserted, err := r.processBatches(ctx, results)
	if err != nil {
		return err
	}

	log.Printf("Replication complete: processed %d results, inserted %d new results", totalProcessed, totalInserted)
	return nil
}

// processBatches processes all results in batches in parallel and returns total processed and inserted counts.
func (r *Replicator) processBatches(ctx context.Context, results []domain.VideoResult) (int, int, error) {
	const processBatchSize = 100
	const numWorkers = 5

	type batchJob struct {
		batch []domain.VideoResult
		start int
		end   int
	}

	type batchResult struct {
		processed int
		inserted  int
		err       error
	}

	numBatches := (len(results) + processBatchSize - 1) / processBatchSize
	jobs := make(chan batchJob, numBatches)
	outcomes := make(chan batchResult, numBatches)

	for start := 0; start < len(results); start += processBatchSize {
		end := start + processBatchSize
		if end > len(results) {
			end = len(results)
		}
		jobs <- batchJob{batch: results[start:end], start: start, end: end}
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				inserted, err := r.processBatch(ctx, job.batch, job.start, job.end)
				outcomes <- batchResult{
					processed: len(job.batch),
					inserted:  inserted,
					err:       err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	totalProcessed := 0
	totalInserted := 0
	for outcome := range outcomes {
		if outcome.err != nil {
			return totalProcessed, totalInserted, outcome.err
		}
		totalProcessed += outcome.processed
		totalInserted += outcome.inserted
	}

	log.Printf("Progress: processed %d/%d results, inserted %d new results", totalProcessed, len(results), totalInserted)

	return totalProcessed, totalInserted, nil
}

// processBatch processes a single batch: checks existing URLs, filters new ones, and inserts them.
func (r *Replicator) processBatch(ctx context.Context, batch []domain.VideoResult, start, end int) (int, error) {
	log.Printf("Processing batch [%d:%d] (%d results)...", start, end, len(batch))

	existing, err := r.checkURLsExistInPostgres(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("check existing URLs for batch [%d:%d]: %w", start, end, err)
	}

	toInsert := r.filterNewResultsByURL(batch, existing)
	if len(toInsert) == 0 {
		return 0, nil
	}

	if err := r.insertResultsTx(ctx, toInsert); err != nil {
		return 0, fmt.Errorf("insert batch [%d:%d]: %w", start, end, err)
	}

	return len(toInsert), nil
}

func (r *Replicator) ensureResultSchema(ctx context.Context) error {
	if r.pg.DB() == nil {
		return fmt.Errorf("postgres DB not connected")
	}

	// Keep schema simple: url is the primary key, which also gives us uniqueness.
	// Matches are stored as a JSON document rather than a child table.
	const ddl = `
CREATE TABLE IF NOT EXISTS search_result (
  url TEXT PRIMARY KEY,
  video_id TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  matches JSONB NOT NULL DEFAULT '[]',
  found_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

	if _, err := r.pg.DB().ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create search_result table: %w", err)
	}
	return nil
}

// checkURLsExistInPostgres checks which URLs from the given batch already exist in Postgres.
// This avoids loading all URLs into memory at once.
func (r *Replicator) checkURLsExistInPostgres(ctx context.Context, batch []domain.VideoResult) (map[string]bool, error) {
	if r.pg.DB() == nil {
		return nil, fmt.Errorf("postgres DB not connected")
	}
	if len(batch) == 0 {
		return map[string]bool{}, nil
	}

	urls := make([]interface{}, 0, len(batch))
	for _, res := range batch {
		if res.URL != "" {
			urls = append(urls, res.URL)
		}
	}
	if len(urls) == 0 {
		return map[string]bool{}, nil
	}

	query, args := r.buildURLInQuery(urls)
	return r.executeURLQuery(ctx, query, args)
}

// buildURLInQuery builds a SQL query with IN clause and returns the query string and arguments.
func (r *Replicator) buildURLInQuery(urls []interface{}) (string, []interface{}) {
	query := `SELECT url FROM search_result WHERE url IN (`
	args := make([]interface{}, len(urls))
	for i, url := range urls {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("$%d", i+1)
		args[i] = url
	}
	query += ")"
	return query, args
}

// executeURLQuery executes a URL query and returns the results as a set.
func (r *Replicator) executeURLQuery(ctx context.Context, query string, args []interface{}) (map[string]bool, error) {
	rows, err := r.pg.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query existing urls: %w", err)
	}
	defer rows.Close()

	set := make(map[string]bool)
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("scan url: %w", err)
		}
		if url != "" {
			set[url] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return set, nil
}

func (r *Replicator) filterNewResultsByURL(all []domain.VideoResult, existing map[string]bool) []domain.VideoResult {
	if existing == nil {
		existing = map[string]bool{}
	}

	out := make([]domain.VideoResult, 0, len(all))
	for _, res := range all {
		if res.URL == "" {
			continue
		}
		if existing[res.URL] {
			continue
		}
		out = append(out, res)
	}
	return out
}

// insertResultsTx inserts a batch of results within a transaction.
func (r *Replicator) insertResultsTx(ctx context.Context, batch []domain.VideoResult) error {
	tx, err := r.pg.DB().BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.executeBatchInsert(ctx, tx, batch); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// executeBatchInsert executes the insert statements for a batch of results.
func (r *Replicator) executeBatchInsert(ctx context.Context, tx *sql.Tx, batch []domain.VideoResult) error {
	const insertQuery = `
INSERT INTO search_result (url, video_id, title, matches, found_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (url) DO NOTHING`

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range batch {
		if res.URL == "" {
			continue
		}
		matches, err := json.Marshal(res.Matches)
		if err != nil {
			return fmt.Errorf("marshal matches url=%q: %w", res.URL, err)
		}
		if _, err := stmt.ExecContext(ctx, res.URL, res.ID, res.Title, matches, res.FoundAt); err != nil {
			return fmt.Errorf("insert result url=%q: %w", res.URL, err)
		}
	}

	return nil
}
