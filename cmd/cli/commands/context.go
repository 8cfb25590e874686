package commands

import (
	"context"

	"go.uber.org/zap"

	"github.com/communityroots/mutualaid/internal/config"
	"github.com/communityroots/mutualaid/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg    *config.Config
	Store  db.Store
	Logger *zap.Logger
	Ctx    context.Context
}
