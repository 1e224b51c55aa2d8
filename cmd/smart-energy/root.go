package main

import (
	"database/sql"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/InsiderP/smart-energy/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "smart-energy",
	Short: "Simulated smart-home energy monitoring backend",
	Long: `smart-energy simulates a fleet of smart-home devices, generates
synthetic telemetry on a fixed cadence, and serves it over REST and a
websocket live feed.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func newLogger() *log.Logger {
	return log.New(os.Stdout, "", log.LstdFlags)
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		path = "config.yaml"
	}
	return config.Load(path)
}

func openDB(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
