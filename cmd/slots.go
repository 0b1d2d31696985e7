package cmd

import (
	"fmt"
	"log"

	"github.com/ybekenov/hire-funnel/internal/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the interview slot inventory defined in the configuration",
	Run: func(_ *cobra.Command, _ []string) {
		slots()
	},
}

func init() {
	rootCmd.AddCommand(slotsCmd)
}

func slots() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	pool, err := seedPool(config.Slots)
	if err != nil {
		logger.Fatal("seeding interview slots", zap.Error(err))
	}

	available := pool.Available()
	if len(available) == 0 {
		logger.Info("no interview slots configured",
			zap.String("hint", "define slots.seed entries or a slots.bulk block in the configuration file"),
		)
		return
	}

	fmt.Printf("Interview slots (%d):\n", len(available))
	for _, slot := range available {
		fmt.Printf("  #%-3d %s %s\n", slot.ID, slot.Date, slot.Time)
	}
}
