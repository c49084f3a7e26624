package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"zh-extractor/internal/cache"
	"zh-extractor/internal/callctx"
	"zh-extractor/internal/config"
	"zh-extractor/internal/export"
	"zh-extractor/internal/filewalker"
	"zh-extractor/internal/gitdiff"
	"zh-extractor/internal/keygen"
	"zh-extractor/internal/parser"
	"zh-extractor/internal/translation"
	"zh-extractor/internal/worker"
)

// app wires configuration to the extraction pipeline for one command run.
type app struct {
	cfg        *config.Config
	exclusions *config.Exclusions
	opts       *options
	format     export.Format
	out        io.Writer
}

// folderResult is the merged extraction output of one directory.
type folderResult struct {
	Name        string
	Dir         string
	Files       int
	Failed      int
	Records     []parser.ExtractionRecord
	Diagnostics []parser.Diagnostic
	Stats       parser.Stats
}

// folderSummary is one exported table.
type folderSummary struct {
	*folderResult
	Rows int
	Path string
}

func newApp(opts *options, out io.Writer) (*app, error) {
	cfg := config.Load()
	if opts.apiKey != "" {
		cfg.APIKey = opts.apiKey
	}
	if opts.offline {
		cfg.APIKey = ""
	}
	if opts.codePath != "" {
		cfg.CodePath = opts.codePath
	}
	if opts.output != "" {
		cfg.OutputDir = opts.output
	}
	if opts.workers > 0 {
		cfg.WorkerCount = opts.workers
	}
	if opts.exclusions != "" {
		cfg.ExclusionsFile = opts.exclusions
	}

	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return nil, err
	}

	ex := config.DefaultExclusions()
	if cfg.ExclusionsFile != "" {
		ex, err = config.LoadExclusions(cfg.ExclusionsFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.ExclusionsFile).Int("calls", len(ex.ExcludedCalls)).Msg("Loaded exclusions")
	}

	return &app{
		cfg:        cfg,
		exclusions: ex,
		opts:       opts,
		format:     format,
		out:        out,
	}, nil
}

// newWalker builds the C# walker for root, limited to files changed since
// --since when it is set.
func (a *app) newWalker(ctx context.Context, root string) (*filewalker.Walker, error) {
	ex := a.exclusions
	wopts := filewalker.Options{
		IgnoreFolders:  ex.IgnoreFolders,
		FolderSuffixes: ex.FolderSuffixes,
		IgnoreGlobs:    ex.IgnoreGlobs,
		UseGitignore:   !a.opts.noGitignore,
	}

	if a.opts.since != "" {
		changed, err := gitdiff.ChangedFiles(ctx, root, a.opts.since)
		if err != nil {
			return nil, fmt.Errorf("list changed files: %w", err)
		}
		log.Info().Str("since", a.opts.since).Int("files", len(changed)).Msg("Limiting scan to changed files")
		wopts.Filter = func(path string) bool {
			return changed[path]
		}
	}

	resolver := callctx.NewResolver(callctx.NewMatcher(ex.ExcludedCalls))
	return filewalker.NewWalker(wopts, parser.NewCSharpParser(resolver, ex.Extensions...))
}

// resolveFolder maps a folder argument to a directory: under the code path
// when it exists there, otherwise as given.
func (a *app) resolveFolder(arg string) string {
	if !filepath.IsAbs(arg) {
		candidate := filepath.Join(a.cfg.CodePath, arg)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return filepath.Clean(arg)
}

// extract parses every file under dir and merges the results in walk order.
func (a *app) extract(ctx context.Context, w *filewalker.Walker, name, dir string) (*folderResult, error) {
	entries, err := w.Walk(dir)
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	bar := newProgress(a.opts.quiet, name, len(entries))
	pool := worker.NewPool(a.cfg.WorkerCount, func(_ context.Context, entry filewalker.FileEntry) (*parser.ParseResult, error) {
		return w.ParseFile(entry)
	}).OnDone(func(int, error) {
		bar.Add()
	})
	results := pool.Execute(ctx, entries)
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &folderResult{Name: name, Dir: dir, Files: len(entries)}
	for _, task := range results {
		if task.Err != nil {
			res.Failed++
			log.Error().Err(task.Err).Str("file", task.Input.Rel).Msg("Parse failed")

			var diag *parser.Diagnostic
			if !errors.As(task.Err, &diag) {
				diag = &parser.Diagnostic{
					Kind:    parser.UnreadableFile,
					Path:    task.Input.Path,
					Message: task.Err.Error(),
					Err:     task.Err,
				}
			}
			res.Diagnostics = append(res.Diagnostics, *diag)
			continue
		}
		res.Records = append(res.Records, task.Result.Records...)
		res.Diagnostics = append(res.Diagnostics, task.Result.Diagnostics...)
		res.Stats.Add(task.Result.Stats)
	}

	for _, d := range res.Diagnostics {
		if d.Kind != parser.UnreadableFile {
			log.Warn().Str("file", d.Path).Int("line", d.Line).Str("kind", string(d.Kind)).Msg(d.Message)
		}
	}

	log.Info().
		Str("folder", name).
		Int("files", res.Files).
		Int("literals", res.Stats.Literals).
		Int("extracted", res.Stats.Extracted).
		Msg("Folder extracted")

	return res, nil
}

// openNamer builds the key naming service and its cache. The returned
// cleanup saves the cache and must always be called.
func (a *app) openNamer(ctx context.Context) (*translation.Service, func(), error) {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	c := cache.NewTranslationCache(store)
	if err := c.Preload(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to preload cache")
	}

	var client translation.Completer
	if a.cfg.APIKey != "" {
		client = translation.NewChatClient(a.cfg.APIKey, a.cfg.TranslationModel, a.cfg.TranslationURL)
		log.Info().Str("model", a.cfg.TranslationModel).Msg("Naming keys with the chat API")
	} else {
		log.Info().Msg("No API key, naming keys with the built-in glossary")
	}

	svc := translation.NewService(client, c, translation.NewLocal(a.exclusions.Glossary), a.cfg.MaxConcurrentAPICalls)
	cleanup := func() {
		// Saved even after cancellation so finished names survive.
		if err := c.Save(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to save cache")
		}
		closeStore()
	}
	return svc, cleanup, nil
}

func (a *app) openStore(ctx context.Context) (cache.Store, func(), error) {
	if a.cfg.DatabaseURL == "" {
		log.Debug().Str("file", a.cfg.CacheFile).Msg("Using file cache")
		return cache.NewFileStore(a.cfg.CacheFile), func() {}, nil
	}

	pgPool, err := pgxpool.New(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect PostgreSQL: %w", err)
	}
	if err := pgPool.Ping(ctx); err != nil {
		pgPool.Close()
		return nil, nil, fmt.Errorf("ping PostgreSQL: %w", err)
	}
	log.Info().Msg("Connected to PostgreSQL")

	store, err := cache.NewPGStore(ctx, pgPool)
	if err != nil {
		pgPool.Close()
		return nil, nil, err
	}
	return store, pgPool.Close, nil
}

// exportFolder names the records of res and writes its table. Folders
// without records produce no file.
func (a *app) exportFolder(ctx context.Context, namer keygen.Namer, res *folderResult) (folderSummary, error) {
	summary := folderSummary{folderResult: res}
	if len(res.Records) == 0 {
		log.Info().Str("folder", res.Name).Msg("No Chinese literals, skipping table")
		return summary, nil
	}

	gen := keygen.NewGenerator(namer, a.cfg.MaxKeyLength, a.cfg.WorkerCount)
	rows, err := gen.Build(ctx, res.Name, res.Records)
	if err != nil {
		return summary, fmt.Errorf("generate keys for %s: %w", res.Name, err)
	}

	path, err := export.WriteFile(a.cfg.OutputDir, res.Name, rows, a.format)
	if err != nil {
		return summary, err
	}
	summary.Rows = len(rows)
	summary.Path = path
	return summary, nil
}

func (a *app) runAll(ctx context.Context) error {
	root := a.cfg.CodePath
	w, err := a.newWalker(ctx, root)
	if err != nil {
		return err
	}

	folders, err := w.Folders(root)
	if err != nil {
		return fmt.Errorf("list module folders: %w", err)
	}
	if len(folders) == 0 {
		log.Warn().Str("path", root).Msg("No module folders found")
		return nil
	}
	log.Info().Int("folders", len(folders)).Str("path", root).Msg("Starting extraction")

	namer, cleanup, err := a.openNamer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	var summaries []folderSummary
	for _, name := range folders {
		res, err := a.extract(ctx, w, name, filepath.Join(root, name))
		if err != nil {
			return err
		}
		summary, err := a.exportFolder(ctx, namer, res)
		if err != nil {
			return err
		}
		summaries = append(summaries, summary)
	}

	printSummary(a.out, summaries)
	return nil
}

func (a *app) runSingle(ctx context.Context, dir string) error {
	w, err := a.newWalker(ctx, dir)
	if err != nil {
		return err
	}
	res, err := a.extract(ctx, w, filepath.Base(dir), dir)
	if err != nil {
		return err
	}

	namer, cleanup, err := a.openNamer(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	summary, err := a.exportFolder(ctx, namer, res)
	if err != nil {
		return err
	}

	printSummary(a.out, []folderSummary{summary})
	printDiagnostics(a.out, res.Diagnostics)
	return nil
}

func (a *app) runScan(ctx context.Context, dir string) error {
	w, err := a.newWalker(ctx, dir)
	if err != nil {
		return err
	}
	res, err := a.extract(ctx, w, filepath.Base(dir), dir)
	if err != nil {
		return err
	}

	printRecords(a.out, res)
	printStats(a.out, res)
	printDiagnostics(a.out, res.Diagnostics)
	return nil
}
