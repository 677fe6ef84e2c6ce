// Package autoload configures the global logger from LOG_* environment
// variables as a side effect of being imported.
package autoload

import (
	configx "github.com/taskmaster-ai/taskmaster-agent/pkg/config"
	logx "github.com/taskmaster-ai/taskmaster-agent/pkg/logger"
)

func init() {
	logx.Init(*configx.MustNew[logx.Config]("LOG"))
}
