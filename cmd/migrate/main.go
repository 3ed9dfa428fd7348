package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"shop-checkout/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

// migrate applies the versioned SQL files under migrations/ with the atlas CLI.
func main() {
	dir := flag.String("dir", "migrations", "migration directory")
	dryRun := flag.Bool("dry-run", false, "print pending migrations without applying them")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("設定の読み込みに失敗しました", "error", err)
		os.Exit(1)
	}

	workdir, err := atlasexec.NewWorkingDir(
		atlasexec.WithMigrations(os.DirFS(*dir)),
	)
	if err != nil {
		logger.Error("マイグレーションディレクトリの読み込みに失敗しました", "dir", *dir, "error", err)
		os.Exit(1)
	}
	defer workdir.Close()

	client, err := atlasexec.NewClient(workdir.Path(), "atlas")
	if err != nil {
		logger.Error("atlas クライアントの初期化に失敗しました", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := client.MigrateApply(ctx, &atlasexec.MigrateApplyParams{
		URL:    cfg.DB.BuildDSN(),
		DryRun: *dryRun,
	})
	if err != nil {
		logger.Error("マイグレーションに失敗しました", "error", err)
		os.Exit(1)
	}

	logger.Info("マイグレーションが完了しました",
		"current", res.Current,
		"target", res.Target,
		"applied", len(res.Applied),
		"dry_run", *dryRun)
}
