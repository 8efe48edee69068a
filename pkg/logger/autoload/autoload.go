package autoload

import (
	configx "github.com/tanpawarit/erp-support-agent/pkg/config"
	logx "github.com/tanpawarit/erp-support-agent/pkg/logger"
)

func init() {
	conf := configx.MustNew[logx.Config]("LOG")
	logx.Init(*conf)
}
