package app

import (
	"log"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// StatsViewAddress is where the runtime stats server listens.
const StatsViewAddress = "localhost:12600"

const statsViewPath = "/debug/statsview"

// launchStatsView starts the go-echarts runtime viewer (heap, goroutines,
// GC pauses) in the background.
func launchStatsView(logger *log.Logger) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(StatsViewAddress))
		mgr := statsview.New()
		mgr.Start()
	}()
	logger.Printf("[APP] stats server available at http://%s%s", StatsViewAddress, statsViewPath)
}
