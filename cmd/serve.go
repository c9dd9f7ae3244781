package cmd

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/hire-pipeline/internal/server"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipeline views over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8080)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe() {
	ctx, cancel := signalContext()
	defer cancel()

	logger, config := setup()
	client := mustClient(config, logger)

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(server.Config{
		Addr:            config.Server.Addr,
		CORSOrigins:     config.Server.CORSOrigins,
		Board:           *boardFilters(config.Board),
		ShutdownTimeout: config.Server.ShutdownTimeout,
	}, newAggregator(client, config, logger), client, logger)

	logger.Info("starting the hire-pipeline", zap.String("version", version))

	if err := srv.Run(ctx); err != nil {
		logger.Fatal("serving", zap.Error(err))
	}
}
