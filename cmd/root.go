package cmd

import (
	"fmt"
	"os"

	"payqr/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "payqr",
	Short: "Price converter with payment QR codes",
	Long: `payqr converts an RMB price into RUB through a rate you enter and
encodes the result as a fast-payment QR code. It runs as an HTTP service
or as a one-shot command line conversion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format reads better on a terminal; debug level gives ISO8601 timestamps
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
