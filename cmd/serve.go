package cmd

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/jobhunter/internal/applications"
	"github.com/spigell/jobhunter/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the application dashboard API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", server.DefaultAddr, "listen address")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	e := setup()
	defer e.stop()

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	scorer := e.scorer()

	srv := server.New(e.config.serverAddr(), server.Deps{
		Tracker:  e.tracker(),
		Store:    applications.NewStore(e.config.ApplicationsDir, scorer),
		Matcher:  e.matcher(),
		Profile:  e.profile(),
		Scorer:   scorer,
		JobsFile: e.config.JobsFile,
		Logger:   e.logger,
		Now:      time.Now,
	})

	if err := srv.Run(e.ctx); err != nil {
		e.logger.Fatal("server stopped", zap.Error(err))
	}
}
