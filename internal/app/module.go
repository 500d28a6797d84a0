package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/subtrack/subtrack/internal/app/api/server"
	"github.com/subtrack/subtrack/internal/app/service/auth"
	"github.com/subtrack/subtrack/internal/app/service/platform"
	"github.com/subtrack/subtrack/internal/app/service/report"
	"github.com/subtrack/subtrack/internal/app/service/snapshot"
	"github.com/subtrack/subtrack/internal/app/service/subscription"
	"github.com/subtrack/subtrack/internal/platform/db"
	"github.com/subtrack/subtrack/pkg/config"
	"github.com/subtrack/subtrack/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	server.Module,
	auth.Module,
	subscription.Module,
	platform.Module,
	report.Module,
	snapshot.Module,
)
