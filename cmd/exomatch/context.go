package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"exomatch/internal/catalog"
	"exomatch/internal/config"
	"exomatch/internal/logging"
	"exomatch/internal/pipeline"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// JSONMode reports whether --json was passed.
func (c *commandContext) JSONMode() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// runSession is one logged run against the catalog.
type runSession struct {
	cfg     *config.Config
	store   *catalog.Store
	runner  *pipeline.Runner
	logger  *slog.Logger
	logPath string
}

func (s *runSession) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// openSession builds the logger, opens the catalog when needed, and wires a
// runner. Callers must Close the session.
func (c *commandContext) openSession(cmd *cobra.Command, withStore bool) (*runSession, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger, logPath, err := logging.NewFromConfig(cfg, runID)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	logging.PruneLogs(logger, cfg, logPath)

	session := &runSession{cfg: cfg, logger: logger, logPath: logPath}
	if withStore {
		store, err := catalog.Open(cmd.Context(), cfg)
		if err != nil {
			return nil, fmt.Errorf("open catalog: %w", err)
		}
		session.store = store
	}
	runner, err := pipeline.New(cfg, session.store, pipeline.Options{RunID: runID, Logger: logger})
	if err != nil {
		session.Close()
		return nil, err
	}
	session.runner = runner
	return session, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
