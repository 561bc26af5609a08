package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/analysis"
	"tradejournal/src/database"
	"tradejournal/src/llm"
	"tradejournal/src/repository"
	"tradejournal/src/rules"
	"tradejournal/src/server"
)

var APP_NAME = os.Getenv("APP_NAME")

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	SetupLogger()
	defer handlePanic()

	if err := database.InitMainDB(); err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	ruleConfig := rules.GetConfig()

	svc := analysis.NewService(
		repository.NewTradeRepository(),
		repository.NewAnalysisRepository(),
		rules.NewEngine(ruleConfig),
		llm.NewAnalyzer(llm.GetConfig()),
		ruleConfig.HistoryWindow,
	)

	server.StartServer(server.GetConfig().Port, svc)
}

func handlePanic() {
	if r := recover(); r != nil {
		logger.WithError(fmt.Errorf("%+v", r)).Error(fmt.Sprintf("Application %s panic", APP_NAME))
	}
	//nolint
	time.Sleep(time.Second * 5)
}
