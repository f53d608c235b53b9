package app

import (
	"go.uber.org/fx"

	"logviewer/internal/app/cli"
	"logviewer/internal/app/logs"
	"logviewer/internal/app/runner"
	"logviewer/internal/app/store"
	"logviewer/internal/app/watcher"
	"logviewer/internal/app/worker"
	"logviewer/internal/config/logger"
)

var Module = fx.Options(
	cli.Module,
	logger.Module,
	logs.Module,
	store.Module,
	worker.Module,
	runner.Module,
	watcher.Module,
	fx.Provide(NewApp),
	fx.Invoke(Register),
)
